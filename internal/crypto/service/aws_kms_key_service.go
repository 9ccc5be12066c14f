package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/aws/smithy-go"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// kmsClient is the subset of *kms.Client used by AWSKMSKeyService.
type kmsClient interface {
	kms.ListAliasesAPIClient
	CreateKey(ctx context.Context, params *kms.CreateKeyInput, optFns ...func(*kms.Options)) (*kms.CreateKeyOutput, error)
	CreateAlias(
		ctx context.Context,
		params *kms.CreateAliasInput,
		optFns ...func(*kms.Options),
	) (*kms.CreateAliasOutput, error)
	GenerateDataKey(
		ctx context.Context,
		params *kms.GenerateDataKeyInput,
		optFns ...func(*kms.Options),
	) (*kms.GenerateDataKeyOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// rejectedContextCodes are the KMS error codes returned when a wrapped key does not
// match the supplied encryption context or the caller may not use the key.
var rejectedContextCodes = map[string]bool{
	"InvalidCiphertextException": true,
	"IncorrectKeyException":      true,
	"AccessDeniedException":      true,
}

// AWSKMSKeyService implements KeyService on top of AWS KMS.
//
// Data keys are generated by KMS under the master key bound to alias, with the
// encryption context passed through unchanged. KMS itself enforces that Decrypt
// receives the same context.
type AWSKMSKeyService struct {
	client kmsClient
	alias  string
}

// NewAWSKMSClient builds a KMS client from the default AWS credential chain.
func NewAWSKMSClient(ctx context.Context, region string) (*kms.Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return kms.NewFromConfig(awsCfg), nil
}

// NewAWSKMSKeyService creates a key service for the master key behind alias.
func NewAWSKMSKeyService(client kmsClient, alias string) *AWSKMSKeyService {
	if alias == "" {
		alias = cryptoDomain.DefaultKeyAlias
	}
	return &AWSKMSKeyService{client: client, alias: alias}
}

// EnsureMasterKey lists all aliases and creates the master key and its alias when the
// alias is missing.
func (a *AWSKMSKeyService) EnsureMasterKey(ctx context.Context) (bool, error) {
	paginator := kms.NewListAliasesPaginator(a.client, &kms.ListAliasesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("%w: failed to list aliases: %w", cryptoDomain.ErrKeyServiceFailed, err)
		}
		for _, entry := range page.Aliases {
			if aws.ToString(entry.AliasName) == a.alias {
				return false, nil
			}
		}
	}

	created, err := a.client.CreateKey(ctx, &kms.CreateKeyInput{
		Description: aws.String("kaurna master key"),
		KeySpec:     types.KeySpecSymmetricDefault,
		KeyUsage:    types.KeyUsageTypeEncryptDecrypt,
	})
	if err != nil {
		return false, fmt.Errorf("%w: failed to create master key: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}
	if created.KeyMetadata == nil || created.KeyMetadata.KeyId == nil {
		return false, fmt.Errorf("%w: no key metadata returned after creation", cryptoDomain.ErrKeyServiceFailed)
	}

	_, err = a.client.CreateAlias(ctx, &kms.CreateAliasInput{
		AliasName:   aws.String(a.alias),
		TargetKeyId: created.KeyMetadata.KeyId,
	})
	if err != nil {
		return false, fmt.Errorf("%w: failed to create alias %s: %w", cryptoDomain.ErrKeyServiceFailed, a.alias, err)
	}

	return true, nil
}

// GenerateDataKey asks KMS for an AES-256 data key constrained to encryptionContext.
func (a *AWSKMSKeyService) GenerateDataKey(
	ctx context.Context,
	encryptionContext cryptoDomain.EncryptionContext,
) (*cryptoDomain.DataKey, error) {
	out, err := a.client.GenerateDataKey(ctx, &kms.GenerateDataKeyInput{
		KeyId:             aws.String(a.alias),
		KeySpec:           types.DataKeySpecAes256,
		EncryptionContext: encryptionContext,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate data key: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}
	if len(out.Plaintext) != cryptoDomain.DataKeySize || len(out.CiphertextBlob) == 0 {
		return nil, fmt.Errorf("%w: unexpected data key returned", cryptoDomain.ErrKeyServiceFailed)
	}

	return &cryptoDomain.DataKey{Plaintext: out.Plaintext, Ciphertext: out.CiphertextBlob}, nil
}

// UnwrapDataKey asks KMS to decrypt wrappedKey under encryptionContext.
func (a *AWSKMSKeyService) UnwrapDataKey(
	ctx context.Context,
	wrappedKey []byte,
	encryptionContext cryptoDomain.EncryptionContext,
) ([]byte, error) {
	out, err := a.client.Decrypt(ctx, &kms.DecryptInput{
		CiphertextBlob:    wrappedKey,
		EncryptionContext: encryptionContext,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && rejectedContextCodes[apiErr.ErrorCode()] {
			return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrAuthorizationFailed, err)
		}
		return nil, fmt.Errorf("%w: failed to decrypt data key: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}

	return out.Plaintext, nil
}

// Close is a no-op; the KMS client holds no resources that need releasing.
func (a *AWSKMSKeyService) Close() error {
	return nil
}

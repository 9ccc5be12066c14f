package app

import (
	"context"
	"fmt"

	"github.com/allisson/kaurna/internal/config"
	cryptoService "github.com/allisson/kaurna/internal/crypto/service"
	secretsHTTP "github.com/allisson/kaurna/internal/secrets/http"
	secretsRepository "github.com/allisson/kaurna/internal/secrets/repository"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// SecretStore is a record store that can also report its own reachability.
type SecretStore interface {
	secretsUseCase.SecretRepository
	Ping(ctx context.Context) error
}

type closableKeyService interface {
	cryptoService.KeyService
	Close() error
}

// SecretStore returns the record store selected by STORE_DRIVER.
func (c *Container) SecretStore(ctx context.Context) (SecretStore, error) {
	var err error
	c.secretStoreInit.Do(func() {
		c.secretStore, err = c.initSecretStore(ctx)
		if err != nil {
			c.setInitError("secretStore", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretStore"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretStore, nil
}

// KeyService returns the master-key service selected by KEY_SERVICE_PROVIDER.
func (c *Container) KeyService(ctx context.Context) (cryptoService.KeyService, error) {
	var err error
	c.keyServiceInit.Do(func() {
		c.keyService, err = c.initKeyService(ctx)
		if err != nil {
			c.setInitError("keyService", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("keyService"); storedErr != nil {
		return nil, storedErr
	}
	return c.keyService, nil
}

// Cipher returns the local AES-CBC cipher.
func (c *Container) Cipher() cryptoService.Cipher {
	c.cipherInit.Do(func() {
		c.cipher = cryptoService.NewAESCBCCipher()
	})
	return c.cipher
}

// SecretUseCase returns the secret engine, instrumented when metrics are enabled.
func (c *Container) SecretUseCase(ctx context.Context) (secretsUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase(ctx)
		if err != nil {
			c.setInitError("secretUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// SecretHandler returns the HTTP handler for secret operations.
func (c *Container) SecretHandler(ctx context.Context) (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		var useCase secretsUseCase.SecretUseCase
		useCase, err = c.SecretUseCase(ctx)
		if err != nil {
			err = fmt.Errorf("failed to get secret use case for handler: %w", err)
			c.setInitError("secretHandler", err)
			return
		}
		c.secretHandler = secretsHTTP.NewSecretHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("secretHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

func (c *Container) initSecretStore(ctx context.Context) (SecretStore, error) {
	switch c.config.StoreDriver {
	case config.StoreDriverDynamoDB:
		client, err := secretsRepository.NewDynamoDBClient(ctx, c.config.AWSRegion, c.config.DynamoDBEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		return secretsRepository.NewDynamoDBSecretRepository(
			client,
			c.config.DynamoDBTable,
			c.config.DynamoDBTableWait,
		), nil
	case config.StoreDriverPostgres, config.StoreDriverMySQL:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret store: %w", err)
		}
		migrator, err := c.Migrator()
		if err != nil {
			return nil, fmt.Errorf("failed to get migrator for secret store: %w", err)
		}
		if c.config.StoreDriver == config.StoreDriverMySQL {
			return secretsRepository.NewMySQLSecretRepository(db, migrator), nil
		}
		return secretsRepository.NewPostgreSQLSecretRepository(db, migrator), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.config.StoreDriver)
	}
}

func (c *Container) initKeyService(ctx context.Context) (closableKeyService, error) {
	switch c.config.KeyServiceProvider {
	case config.KeyServiceAWSKMS:
		client, err := cryptoService.NewAWSKMSClient(ctx, c.config.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create kms client: %w", err)
		}
		return cryptoService.NewAWSKMSKeyService(client, c.config.KMSKeyAlias), nil
	case config.KeyServiceKeeper:
		keeper, err := cryptoService.OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		return cryptoService.NewKeeperKeyService(keeper), nil
	default:
		return nil, fmt.Errorf("unsupported key service provider: %s", c.config.KeyServiceProvider)
	}
}

func (c *Container) initSecretUseCase(ctx context.Context) (secretsUseCase.SecretUseCase, error) {
	store, err := c.SecretStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get secret store for secret use case: %w", err)
	}
	keyService, err := c.KeyService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key service for secret use case: %w", err)
	}

	useCase := secretsUseCase.NewSecretUseCase(store, keyService, c.Cipher(), c.Logger())
	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
	}
	return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
}

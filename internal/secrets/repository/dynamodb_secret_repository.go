package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// DefaultTableName is the well-known DynamoDB table holding secret records.
const DefaultTableName = "kaurna"

// dynamoClient is the subset of *dynamodb.Client used by DynamoDBSecretRepository.
type dynamoClient interface {
	dynamodb.DescribeTableAPIClient
	dynamodb.QueryAPIClient
	dynamodb.ScanAPIClient
	CreateTable(
		ctx context.Context,
		params *dynamodb.CreateTableInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.CreateTableOutput, error)
	DeleteTable(
		ctx context.Context,
		params *dynamodb.DeleteTableInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.DeleteTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(
		ctx context.Context,
		params *dynamodb.DeleteItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.DeleteItemOutput, error)
}

// NewDynamoDBClient builds a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint points the client at a local DynamoDB.
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// DynamoDBSecretRepository implements the secret record store on a DynamoDB table keyed
// by secret_name (HASH, string) and secret_version (RANGE, number). Reads are strongly
// consistent so version numbering sees every earlier write.
type DynamoDBSecretRepository struct {
	client      dynamoClient
	table       string
	waitTimeout time.Duration
}

// NewDynamoDBSecretRepository creates a repository over table. EnsureTable waits up to
// waitTimeout for a new table to become active; zero skips the wait.
func NewDynamoDBSecretRepository(
	client dynamoClient,
	table string,
	waitTimeout time.Duration,
) *DynamoDBSecretRepository {
	if table == "" {
		table = DefaultTableName
	}
	return &DynamoDBSecretRepository{client: client, table: table, waitTimeout: waitTimeout}
}

// EnsureTable creates the table with the given provisioned capacity unless it exists.
func (r *DynamoDBSecretRepository) EnsureTable(ctx context.Context, readCapacity, writeCapacity int64) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return storeError("describe table", err)
	}

	_, err = r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(r.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(secretsDomain.FieldSecretName), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(secretsDomain.FieldSecretVersion), AttributeType: types.ScalarAttributeTypeN},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(secretsDomain.FieldSecretName), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(secretsDomain.FieldSecretVersion), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModeProvisioned,
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(max(readCapacity, 1)),
			WriteCapacityUnits: aws.Int64(max(writeCapacity, 1)),
		},
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return storeError("create table", err)
	}

	if r.waitTimeout > 0 {
		waiter := dynamodb.NewTableExistsWaiter(r.client)
		input := &dynamodb.DescribeTableInput{TableName: aws.String(r.table)}
		if err := waiter.Wait(ctx, input, r.waitTimeout); err != nil {
			return storeError("wait for table", err)
		}
	}

	return nil
}

// DropTable deletes the table and every record in it. A missing table is not an error.
func (r *DynamoDBSecretRepository) DropTable(ctx context.Context) error {
	_, err := r.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(r.table)})
	var notFound *types.ResourceNotFoundException
	if err != nil && !errors.As(err, &notFound) {
		return storeError("drop table", err)
	}
	return nil
}

// Ping checks that the table is reachable.
func (r *DynamoDBSecretRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.table)})
	if err != nil {
		return storeError("describe table", err)
	}
	return nil
}

// Query returns the versions of name, or only the given version when it is non-zero.
func (r *DynamoDBSecretRepository) Query(
	ctx context.Context,
	name string,
	version uint,
	fields ...string,
) ([]secretsDomain.Secret, error) {
	keyCond := expression.Key(secretsDomain.FieldSecretName).Equal(expression.Value(name))
	if version > 0 {
		keyCond = keyCond.And(expression.Key(secretsDomain.FieldSecretVersion).Equal(expression.Value(version)))
	}
	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if len(fields) > 0 {
		builder = builder.WithProjection(projection(fields))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	var secrets []secretsDomain.Secret
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("query secrets", err)
		}
		decoded, err := decodeItems(page.Items)
		if err != nil {
			return nil, storeError("query secrets", err)
		}
		secrets = append(secrets, decoded...)
	}
	return secrets, nil
}

// Scan returns every record in the table.
func (r *DynamoDBSecretRepository) Scan(ctx context.Context, fields ...string) ([]secretsDomain.Secret, error) {
	input := &dynamodb.ScanInput{
		TableName:      aws.String(r.table),
		ConsistentRead: aws.Bool(true),
	}
	if len(fields) > 0 {
		expr, err := expression.NewBuilder().WithProjection(projection(fields)).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build scan expression: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	var secrets []secretsDomain.Secret
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("scan secrets", err)
		}
		decoded, err := decodeItems(page.Items)
		if err != nil {
			return nil, storeError("scan secrets", err)
		}
		secrets = append(secrets, decoded...)
	}
	return secrets, nil
}

// Put writes the record, replacing any item with the same key.
func (r *DynamoDBSecretRepository) Put(ctx context.Context, secret secretsDomain.Secret) error {
	row, err := FromSecret(secret)
	if err != nil {
		return storeError("encode secret", err)
	}
	item, err := attributevalue.MarshalMap(row)
	if err != nil {
		return storeError("encode secret", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return storeError("put secret", err)
	}
	return nil
}

// Delete removes the item with the key of secret.
func (r *DynamoDBSecretRepository) Delete(ctx context.Context, secret secretsDomain.Secret) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			secretsDomain.FieldSecretName:    &types.AttributeValueMemberS{Value: secret.Name},
			secretsDomain.FieldSecretVersion: &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(secret.Version), 10)},
		},
	})
	if err != nil {
		return storeError("delete secret", err)
	}
	return nil
}

func projection(fields []string) expression.ProjectionBuilder {
	columns := projectFields(fields)
	names := make([]expression.NameBuilder, 0, len(columns))
	for _, c := range columns {
		names = append(names, expression.Name(c))
	}
	return expression.NamesList(names[0], names[1:]...)
}

func decodeItems(items []map[string]types.AttributeValue) ([]secretsDomain.Secret, error) {
	var rows []Row
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, err
	}
	secrets := make([]secretsDomain.Secret, 0, len(rows))
	for _, row := range rows {
		secret, err := row.ToSecret()
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

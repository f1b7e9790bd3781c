package dynamodb

import (
	"context"
	"fmt"

	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Entity types stored in the single table
const (
	entityUser          = "USER"
	entityFavorite      = "FAVORITE"
	entityChart         = "CHART"
	entityHoroscope     = "HOROSCOPE"
	entityMoonPhase     = "MOON_PHASE"
	entityCosmicEvent   = "COSMIC_EVENT"
	entityCompatibility = "COMPATIBILITY"
	entityArticle       = "ARTICLE"

	skMetadata = "METADATA"
	skProfile  = "PROFILE"
)

// keys are the table and index key attributes shared by every item
type keys struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	GSI2PK     string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK     string `dynamodbav:"GSI2SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`
}

// Table holds the single-table settings shared by the repositories
type Table struct {
	client    API
	tableName string
	gsi1      string
	gsi2      string
	logger    *zap.Logger
}

// NewTable creates a new table handle
func NewTable(client API, tableName, gsi1, gsi2 string, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		client:    client,
		tableName: tableName,
		gsi1:      gsi1,
		gsi2:      gsi2,
		logger:    logger,
	}
}

func (t *Table) put(ctx context.Context, op string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", op, err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.tableName),
		Item:      av,
	})
	if err != nil {
		return t.storeError(ctx, op, err)
	}
	return nil
}

// get loads one item into out, returning a NOT_FOUND error for resource
// when the key does not exist.
func (t *Table) get(ctx context.Context, op, resource, pk, sk string, out interface{}) error {
	result, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return t.storeError(ctx, op, err)
	}
	if len(result.Item) == 0 {
		return pkgerrors.NewNotFoundError(resource)
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", op, err)
	}
	return nil
}

func (t *Table) delete(ctx context.Context, op, pk, sk string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return t.storeError(ctx, op, err)
	}
	return nil
}

// queryRequest describes a key-condition query
type queryRequest struct {
	op      string
	index   string
	key     expression.KeyConditionBuilder
	filter  *expression.ConditionBuilder
	forward bool
	limit   int
}

// query runs a paginated key-condition query, decoding items with decode.
// A positive limit stops after that many items.
func (t *Table) query(ctx context.Context, req queryRequest, decode func(map[string]types.AttributeValue) error) error {
	builder := expression.NewBuilder().WithKeyCondition(req.key)
	if req.filter != nil {
		builder = builder.WithFilter(*req.filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build %s expression: %w", req.op, err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(t.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(req.forward),
	}
	if req.index != "" {
		input.IndexName = aws.String(req.index)
	}

	count := 0
	for {
		out, err := t.client.Query(ctx, input)
		if err != nil {
			return t.storeError(ctx, req.op, err)
		}
		for _, item := range out.Items {
			if err := decode(item); err != nil {
				return fmt.Errorf("failed to unmarshal %s: %w", req.op, err)
			}
			count++
			if req.limit > 0 && count >= req.limit {
				return nil
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// storeError classifies a client error. Caller cancellation is reported
// as such so retries stop; everything else is a persistence failure.
func (t *Table) storeError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return pkgerrors.NewCancelledError(op, ctx.Err())
	}
	t.logger.Debug("DynamoDB operation failed", zap.String("operation", op), zap.Error(err))
	return pkgerrors.NewPersistenceError(op, err)
}

package repository

import (
	"context"
	"errors"
	"time"

	"payment_relay/internal/domain/entities"
	"payment_relay/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultOrdersTableName = "orders"
	defaultOrdersRefIndex  = "reference-index"
)

// dynamoAPI is the subset of *dynamodb.Client used by the order repository.
type dynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type orderItem struct {
	ID        string `dynamodbav:"id"`
	Reference string `dynamodbav:"reference,omitempty"`
	Status    string `dynamodbav:"status,omitempty"`
	UpdatedAt string `dynamodbav:"updated_at,omitempty"`
}

// OrderDynamoRepository persists order references and statuses in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: reference-index (PK: reference)
//
// Orders are created by the storefront; every write here is an UpdateItem
// guarded by attribute_exists(id) so a missing order is never created.
type OrderDynamoRepository struct {
	ddb       dynamoAPI
	tableName string
	refIndex  string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb dynamoAPI, tableName, referenceIndex string) *OrderDynamoRepository {
	if tableName == "" {
		tableName = defaultOrdersTableName
	}
	if referenceIndex == "" {
		referenceIndex = defaultOrdersRefIndex
	}
	return &OrderDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		refIndex:  referenceIndex,
	}
}

func (r *OrderDynamoRepository) UpdateReference(ctx context.Context, orderID, reference string) (entities.Order, error) {
	return r.update(ctx, orderID, &dynamodb.UpdateItemInput{
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #reference = :reference, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#reference":  "reference",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":reference": &types.AttributeValueMemberS{Value: reference},
		},
	})
}

// UpdateStatus only applies while the order still carries reference; a
// concurrent re-initialize that replaced it turns this into ErrOrderNotFound.
func (r *OrderDynamoRepository) UpdateStatus(ctx context.Context, orderID, reference string, status entities.OrderStatus) (entities.Order, error) {
	return r.update(ctx, orderID, &dynamodb.UpdateItemInput{
		ConditionExpression: aws.String("attribute_exists(#id) AND #reference = :reference"),
		UpdateExpression:    aws.String("SET #status = :status, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#reference":  "reference",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":reference": &types.AttributeValueMemberS{Value: reference},
			":status":    &types.AttributeValueMemberS{Value: string(status)},
		},
	})
}

func (r *OrderDynamoRepository) ListByReference(ctx context.Context, reference string, limit int) ([]entities.Order, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.refIndex),
		KeyConditionExpression: aws.String("#reference = :reference"),
		ExpressionAttributeNames: map[string]string{
			"#reference": "reference",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":reference": &types.AttributeValueMemberS{Value: reference},
		},
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, err
	}

	orders := make([]entities.Order, 0, len(out.Items))
	for _, raw := range out.Items {
		var it orderItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		orders = append(orders, fromOrderItem(it))
	}
	return orders, nil
}

func (r *OrderDynamoRepository) update(ctx context.Context, orderID string, in *dynamodb.UpdateItemInput) (entities.Order, error) {
	in.TableName = aws.String(r.tableName)
	in.Key = map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: orderID},
	}
	in.ExpressionAttributeValues[":updated_at"] = &types.AttributeValueMemberS{
		Value: time.Now().UTC().Format(time.RFC3339Nano),
	}
	in.ReturnValues = types.ReturnValueAllNew

	out, err := r.ddb.UpdateItem(ctx, in)
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, interfaces.ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Order{ID: orderID}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

func fromOrderItem(it orderItem) entities.Order {
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Order{
		ID:        it.ID,
		Reference: it.Reference,
		Status:    entities.OrderStatus(it.Status),
		UpdatedAt: updatedAt,
	}
}

package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/live-redirect-api/internal/domain"
)

// NotifyQueueRepo provides typed DynamoDB operations for the day-bucketed notification queue.
type NotifyQueueRepo struct {
	dayBuckets
}

func NewNotifyQueueRepo(client *dynamodb.Client, tableName string) *NotifyQueueRepo {
	return &NotifyQueueRepo{dayBuckets{client: client, tableName: tableName}}
}

func (r *NotifyQueueRepo) Get(ctx context.Context, day string) (*domain.NotifyQueueDocument, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldDate, day),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notify queue %s: %w", day, domain.ErrNotFound)
	}
	var doc domain.NotifyQueueDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *NotifyQueueRepo) Put(ctx context.Context, doc *domain.NotifyQueueDocument) error {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("marshal notify queue: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ReplaceVideos rewrites the videos list of an existing bucket and bumps updated_at.
// Other attributes on the item are left untouched.
func (r *NotifyQueueRepo) ReplaceVideos(ctx context.Context, day string, videos []domain.NotifiedVideoRecord, updatedAt time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldVideos:    videos,
		fieldUpdatedAt: updatedAt,
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldDate, day),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// ExportDay returns the bucket as a value suitable for archiving.
func (r *NotifyQueueRepo) ExportDay(ctx context.Context, day string) (interface{}, error) {
	return r.Get(ctx, day)
}

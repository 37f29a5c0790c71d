package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/live-redirect-api/internal/domain"
)

// LiveCacheRepo provides typed DynamoDB operations for the day-bucketed live redirect cache.
type LiveCacheRepo struct {
	dayBuckets
}

func NewLiveCacheRepo(client *dynamodb.Client, tableName string) *LiveCacheRepo {
	return &LiveCacheRepo{dayBuckets{client: client, tableName: tableName}}
}

func (r *LiveCacheRepo) Get(ctx context.Context, day string) (*domain.DailyCacheDocument, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldDate, day),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("live cache %s: %w", day, domain.ErrNotFound)
	}
	var doc domain.DailyCacheDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put replaces the whole bucket in a single write; there are no partial channel updates.
func (r *LiveCacheRepo) Put(ctx context.Context, doc *domain.DailyCacheDocument) error {
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("marshal live cache: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ExportDay returns the bucket as a value suitable for archiving.
func (r *LiveCacheRepo) ExportDay(ctx context.Context, day string) (interface{}, error) {
	return r.Get(ctx, day)
}

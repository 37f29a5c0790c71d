package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxUnprocessedRetries bounds how often a partially applied batch delete is resubmitted.
const maxUnprocessedRetries = 3

// dayBuckets implements the listing and purging shared by every date-keyed table.
type dayBuckets struct {
	client    *dynamodb.Client
	tableName string
}

// Name returns the table backing this collection.
func (b dayBuckets) Name() string { return b.tableName }

// ListDays returns every bucket key in the table, sorted ascending.
// Only the key attribute is projected so large documents are not transferred.
func (b dayBuckets) ListDays(ctx context.Context) ([]string, error) {
	p := dynamodb.NewScanPaginator(b.client, &dynamodb.ScanInput{
		TableName:                aws.String(b.tableName),
		ProjectionExpression:     aws.String("#d"),
		ExpressionAttributeNames: map[string]string{"#d": fieldDate},
	})
	var days []string
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", b.tableName, err)
		}
		for _, item := range out.Items {
			if v, ok := item[fieldDate].(*types.AttributeValueMemberS); ok {
				days = append(days, v.Value)
			}
		}
	}
	sort.Strings(days)
	return days, nil
}

// DeleteDays removes the given buckets in BatchWriteItem-sized chunks.
func (b dayBuckets) DeleteDays(ctx context.Context, days []string) error {
	for _, batch := range chunk(days, maxBatchWrite) {
		reqs := make([]types.WriteRequest, 0, len(batch))
		for _, day := range batch {
			reqs = append(reqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: strKey(fieldDate, day)},
			})
		}
		pending := map[string][]types.WriteRequest{b.tableName: reqs}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt > maxUnprocessedRetries {
				return fmt.Errorf("delete %s: %d requests left unprocessed", b.tableName, len(pending[b.tableName]))
			}
			out, err := b.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch delete %s: %w", b.tableName, err)
			}
			pending = out.UnprocessedItems
		}
		slog.Info("deleted day buckets", "table", b.tableName, "count", len(batch))
	}
	return nil
}

// Ping confirms the table exists and is reachable.
func (b dayBuckets) Ping(ctx context.Context) error {
	_, err := b.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(b.tableName)})
	if err != nil {
		return fmt.Errorf("describe %s: %w", b.tableName, err)
	}
	return nil
}

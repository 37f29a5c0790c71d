package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/live-redirect-api/internal/domain"
)

// ChannelRepo reads the channel directory. Onboarding writes it; this service only reads.
type ChannelRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChannelRepo(client *dynamodb.Client, tableName string) *ChannelRepo {
	return &ChannelRepo{client: client, tableName: tableName}
}

func (r *ChannelRepo) Get(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldChannelID, channelID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, domain.ErrNotFound)
	}
	var c domain.ChannelInfo
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List scans every tracked channel.
func (r *ChannelRepo) List(ctx context.Context) ([]domain.ChannelInfo, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	var channels []domain.ChannelInfo
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan channels: %w", err)
		}
		var page []domain.ChannelInfo
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		channels = append(channels, page...)
	}
	return channels, nil
}

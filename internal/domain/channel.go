package domain

// ChannelInfo is the display data the channel directory holds for a tracked channel.
type ChannelInfo struct {
	ChannelID   string   `json:"channel_id" dynamodbav:"channel_id"`
	Name        string   `json:"name" dynamodbav:"name"`
	Thumbnail   string   `json:"thumbnail" dynamodbav:"thumbnail"`
	Badge       string   `json:"badge" dynamodbav:"badge"`
	CountryCode []string `json:"countryCode" dynamodbav:"country_code"`
}

package dynamo

// DynamoDB attribute names used in key conditions and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldDate      = "date"
	fieldChannelID = "channel_id"
	fieldUpdatedAt = "updated_at"
	fieldVideos    = "videos"
)

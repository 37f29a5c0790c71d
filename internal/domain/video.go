package domain

// VideoMetadata is the subset of the provider's video resource the resolver needs.
// LiveDetails is nil when the video is not a livestream at all.
type VideoMetadata struct {
	ID            string
	Title         string
	ChannelID     string
	PrivacyStatus string
	LiveDetails   *LiveStreamingDetails
}

// LiveStreamingDetails carries the raw RFC 3339 timestamps exactly as the provider returned them.
type LiveStreamingDetails struct {
	ActualStartTime    string
	ScheduledStartTime string
	ActualEndTime      string
	ConcurrentViewers  int64
}

const (
	PrivacyPublic   = "public"
	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
)

package domain

import "time"

// NotifiedVideoRecord is one "channel published or updated a video" push notification.
type NotifiedVideoRecord struct {
	VideoID     string     `json:"videoId" dynamodbav:"video_id"`
	ChannelID   string     `json:"channelId" dynamodbav:"channel_id"`
	NotifiedAt  time.Time  `json:"notifiedAt" dynamodbav:"notified_at"`
	ProcessedAt *time.Time `json:"processedAt" dynamodbav:"processed_at"`
}

// Processed reports whether the reconciler already stamped this record.
func (r NotifiedVideoRecord) Processed() bool { return r.ProcessedAt != nil }

// NotifyQueueDocument is the day bucket holding every notification received that day.
type NotifyQueueDocument struct {
	Date      string                `json:"date" dynamodbav:"date"`
	UpdatedAt time.Time             `json:"updatedAt" dynamodbav:"updated_at"`
	Videos    []NotifiedVideoRecord `json:"videos" dynamodbav:"videos"`
}

// VideoNotification is the inbound payload extracted from one feed entry.
type VideoNotification struct {
	VideoID   string `validate:"required"`
	ChannelID string `validate:"required"`
}

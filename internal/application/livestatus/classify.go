package livestatus

import (
	"time"

	"github.com/live-redirect-api/internal/domain"
)

// UpcomingWindow is the grace period around a scheduled start. A broadcast scheduled within
// it is surfaced as live-upcoming, and one that is this late without starting is stale.
const UpcomingWindow = 15 * time.Minute

// Result is the classification of one video.
// Status is only meaningful when State.Cached() is true.
type Result struct {
	VideoID   string
	ChannelID string
	State     domain.LiveState
	Status    domain.LiveStatus
}

// Classify derives the live state of v at now from its livestream timestamps and privacy status.
// An unparseable timestamp yields a *domain.ParseError.
func Classify(v domain.VideoMetadata, now time.Time) (Result, error) {
	now = now.UTC()
	res := Result{VideoID: v.ID, ChannelID: v.ChannelID, State: domain.StateNotLivestream}
	d := v.LiveDetails
	if d == nil {
		return res, nil
	}

	actualStart, err := parseTimestamp(v.ID, "actualStartTime", d.ActualStartTime)
	if err != nil {
		return res, err
	}
	scheduled, err := parseTimestamp(v.ID, "scheduledStartTime", d.ScheduledStartTime)
	if err != nil {
		return res, err
	}
	actualEnd, err := parseTimestamp(v.ID, "actualEndTime", d.ActualEndTime)
	if err != nil {
		return res, err
	}

	status := domain.LiveStatus{
		VideoID: v.ID,
		Title:   v.Title,
		Viewers: d.ConcurrentViewers,
	}

	switch {
	case actualEnd != nil:
		res.State = domain.StateEnded
		status.EndTime = actualEnd
		status.StartTime = firstNonNil(actualStart, scheduled)

	case actualStart != nil && !actualStart.After(now):
		res.State = domain.StateLive
		status.StartTime = actualStart

	default:
		// A start time in the future is as good as a schedule.
		start := firstNonNil(scheduled, actualStart)
		if start == nil {
			return res, nil
		}
		if now.Sub(*start) > UpcomingWindow {
			res.State = domain.StateStaleUpcoming
			return res, nil
		}
		status.IsUpcoming = true
		status.StartTime = start
		if start.After(now.Add(UpcomingWindow)) {
			res.State = domain.StateUpcoming
		} else {
			res.State = domain.StateLive
		}
	}

	if status.EndTime == nil && (v.PrivacyStatus == domain.PrivacyPrivate || v.PrivacyStatus == domain.PrivacyUnlisted) {
		end := now
		status.EndTime = &end
		status.IsUpcoming = false
		res.State = domain.StateEnded
	}

	status.State = res.State
	res.Status = status
	return res, nil
}

func parseTimestamp(videoID, field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &domain.ParseError{VideoID: videoID, Field: field, Value: value, Err: err}
	}
	t = t.UTC()
	return &t, nil
}

func firstNonNil(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil {
			return t
		}
	}
	return nil
}

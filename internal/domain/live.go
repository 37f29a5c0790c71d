package domain

import (
	"sort"
	"time"
)

// LiveState is the resolver's classification of a video.
type LiveState string

const (
	StateLive          LiveState = "live"
	StateUpcoming      LiveState = "upcoming"
	StateEnded         LiveState = "ended"
	StateStaleUpcoming LiveState = "stale_upcoming"
	StateUnavailable   LiveState = "unavailable"
	StateNotLivestream LiveState = "not_livestream"
)

// Terminal reports whether the state can never move back to live or upcoming.
func (s LiveState) Terminal() bool {
	return s == StateEnded || s == StateUnavailable
}

// Cached reports whether a result in this state produces a cache entry.
func (s LiveState) Cached() bool {
	switch s {
	case StateLive, StateUpcoming, StateEnded, StateUnavailable:
		return true
	}
	return false
}

// Category is the title classification attached by the category service. It is carried through merges untouched.
type Category struct {
	MatchedCategories []string            `json:"matchedCategories" dynamodbav:"matched_categories"`
	MatchedPairs      map[string][]string `json:"matchedPairs,omitempty" dynamodbav:"matched_pairs"`
}

// LiveStatus is the last known live state of one video.
// EndTime is the terminal marker: once set, a later merge must not clear it.
type LiveStatus struct {
	VideoID     string     `json:"videoId" dynamodbav:"video_id"`
	Title       string     `json:"title" dynamodbav:"title"`
	StartTime   *time.Time `json:"startTime" dynamodbav:"start_time"`
	Viewers     int64      `json:"viewers" dynamodbav:"viewers"`
	IsUpcoming  bool       `json:"isUpcoming" dynamodbav:"is_upcoming"`
	EndTime     *time.Time `json:"endTime" dynamodbav:"end_time"`
	IsAvailable *bool      `json:"isAvailable,omitempty" dynamodbav:"is_available,omitempty"`
	State       LiveState  `json:"state" dynamodbav:"state"`
	Category    *Category  `json:"category,omitempty" dynamodbav:"category,omitempty"`
}

// Ended reports whether the status carries the terminal EndTime marker.
func (l LiveStatus) Ended() bool { return l.EndTime != nil }

// Available is false only for fallback entries built for videos the provider no longer returns.
func (l LiveStatus) Available() bool { return l.IsAvailable == nil || *l.IsAvailable }

// ChannelCacheEntry is one row of the live redirect cache.
type ChannelCacheEntry struct {
	ChannelID   string     `json:"channel_id" dynamodbav:"channel_id"`
	Name        string     `json:"name,omitempty" dynamodbav:"name"`
	Thumbnail   string     `json:"thumbnail,omitempty" dynamodbav:"thumbnail"`
	Badge       string     `json:"badge,omitempty" dynamodbav:"badge"`
	CountryCode []string   `json:"countryCode" dynamodbav:"country_code"`
	Live        LiveStatus `json:"live" dynamodbav:"live"`
}

// DailyCacheDocument is the day bucket of the live redirect cache.
type DailyCacheDocument struct {
	Date      string              `json:"-" dynamodbav:"date"`
	UpdatedAt time.Time           `json:"updatedAt" dynamodbav:"updated_at"`
	Channels  []ChannelCacheEntry `json:"channels" dynamodbav:"channels"`
}

// NewFallbackEntry builds the terminal entry for a video the provider did not return at all.
func NewFallbackEntry(videoID string, now time.Time) ChannelCacheEntry {
	available := false
	end := now.UTC()
	return ChannelCacheEntry{
		CountryCode: []string{},
		Live: LiveStatus{
			VideoID:     videoID,
			EndTime:     &end,
			IsAvailable: &available,
			State:       StateUnavailable,
		},
	}
}

// MergeLiveStatus merges a freshly resolved status over the previously cached one.
// Without force, a fresh status lacking EndTime never replaces one that has it.
func MergeLiveStatus(old, fresh LiveStatus, force bool) LiveStatus {
	if !force && old.Ended() && !fresh.Ended() {
		return old
	}
	if fresh.Category == nil {
		fresh.Category = old.Category
	}
	return fresh
}

// MergeEntry merges a fresh cache entry over the previous one for the same video.
// Fallback entries carry no channel attribution, so the previous attribution is kept.
func MergeEntry(old, fresh ChannelCacheEntry, force bool) ChannelCacheEntry {
	if !force && old.Live.Ended() && !fresh.Live.Ended() {
		return old
	}
	out := fresh
	if out.ChannelID == "" {
		out.ChannelID = old.ChannelID
		out.Name = old.Name
		out.Thumbnail = old.Thumbnail
		out.Badge = old.Badge
		out.CountryCode = old.CountryCode
	}
	if out.CountryCode == nil {
		out.CountryCode = []string{}
	}
	out.Live = MergeLiveStatus(old.Live, fresh.Live, force)
	return out
}

// SortEntries orders entries deterministically: open streams first, then by start time
// (most recent first), then by video ID.
func SortEntries(entries []ChannelCacheEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Live, entries[j].Live
		if a.Ended() != b.Ended() {
			return !a.Ended()
		}
		as, bs := startUnix(a), startUnix(b)
		if as != bs {
			return as > bs
		}
		return a.VideoID < b.VideoID
	})
}

func startUnix(l LiveStatus) int64 {
	if l.StartTime == nil {
		return 0
	}
	return l.StartTime.Unix()
}

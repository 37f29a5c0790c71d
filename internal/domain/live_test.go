package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestMergeLiveStatus_FreshEndTimeOverridesOpenEntry(t *testing.T) {
	old := LiveStatus{VideoID: "v1", State: StateLive}
	fresh := LiveStatus{VideoID: "v1", State: StateEnded, EndTime: ptr(t0)}

	merged := MergeLiveStatus(old, fresh, false)
	require.NotNil(t, merged.EndTime)
	assert.Equal(t, t0, *merged.EndTime)
	assert.Equal(t, StateEnded, merged.State)
}

func TestMergeLiveStatus_OpenResultNeverClearsEndTime(t *testing.T) {
	old := LiveStatus{VideoID: "v1", State: StateEnded, EndTime: ptr(t0), Viewers: 10}
	fresh := LiveStatus{VideoID: "v1", State: StateLive, Viewers: 99}

	merged := MergeLiveStatus(old, fresh, false)
	require.NotNil(t, merged.EndTime)
	assert.Equal(t, old, merged)
}

func TestMergeLiveStatus_ForceAllowsReopen(t *testing.T) {
	old := LiveStatus{VideoID: "v1", State: StateEnded, EndTime: ptr(t0)}
	fresh := LiveStatus{VideoID: "v1", State: StateLive}

	merged := MergeLiveStatus(old, fresh, true)
	assert.Nil(t, merged.EndTime)
	assert.Equal(t, StateLive, merged.State)
}

func TestMergeLiveStatus_KeepsCategoryWhenFreshHasNone(t *testing.T) {
	cat := &Category{MatchedCategories: []string{"Gaming"}}
	old := LiveStatus{VideoID: "v1", Category: cat}
	fresh := LiveStatus{VideoID: "v1", Viewers: 3}

	merged := MergeLiveStatus(old, fresh, false)
	assert.Same(t, cat, merged.Category)
	assert.EqualValues(t, 3, merged.Viewers)
}

func TestMergeLiveStatus_TerminalMonotonicAcrossSequence(t *testing.T) {
	seq := []LiveStatus{
		{VideoID: "v1", State: StateUpcoming, IsUpcoming: true},
		{VideoID: "v1", State: StateLive},
		{VideoID: "v1", State: StateEnded, EndTime: ptr(t0)},
		{VideoID: "v1", State: StateLive},
		{VideoID: "v1", State: StateUpcoming, IsUpcoming: true},
	}
	cur := seq[0]
	sawEnd := false
	for _, next := range seq[1:] {
		cur = MergeLiveStatus(cur, next, false)
		if cur.Ended() {
			sawEnd = true
		}
		if sawEnd {
			assert.True(t, cur.Ended())
		}
	}
}

func TestMergeEntry_FallbackKeepsChannelAttribution(t *testing.T) {
	old := ChannelCacheEntry{
		ChannelID:   "c1",
		Name:        "Channel One",
		CountryCode: []string{"TW"},
		Live:        LiveStatus{VideoID: "v1", State: StateLive},
	}
	fresh := NewFallbackEntry("v1", t0)

	merged := MergeEntry(old, fresh, false)
	assert.Equal(t, "c1", merged.ChannelID)
	assert.Equal(t, "Channel One", merged.Name)
	assert.Equal(t, []string{"TW"}, merged.CountryCode)
	assert.False(t, merged.Live.Available())
	assert.Equal(t, StateUnavailable, merged.Live.State)
}

func TestMergeEntry_EndedEntryKeptAgainstOpenResult(t *testing.T) {
	old := ChannelCacheEntry{ChannelID: "c1", Live: LiveStatus{VideoID: "v1", EndTime: ptr(t0), State: StateEnded}}
	fresh := ChannelCacheEntry{ChannelID: "c2", Live: LiveStatus{VideoID: "v1", State: StateLive}}

	assert.Equal(t, old, MergeEntry(old, fresh, false))
}

func TestNewFallbackEntry(t *testing.T) {
	e := NewFallbackEntry("gone", t0)
	assert.Empty(t, e.ChannelID)
	assert.Equal(t, "gone", e.Live.VideoID)
	require.NotNil(t, e.Live.EndTime)
	assert.Equal(t, t0, *e.Live.EndTime)
	require.NotNil(t, e.Live.IsAvailable)
	assert.False(t, *e.Live.IsAvailable)
	assert.NotNil(t, e.CountryCode)
}

func TestSortEntries_OpenFirstThenNewestStart(t *testing.T) {
	entries := []ChannelCacheEntry{
		{Live: LiveStatus{VideoID: "ended", StartTime: ptr(t0.Add(time.Hour)), EndTime: ptr(t0)}},
		{Live: LiveStatus{VideoID: "old", StartTime: ptr(t0)}},
		{Live: LiveStatus{VideoID: "b", StartTime: ptr(t0.Add(time.Minute))}},
		{Live: LiveStatus{VideoID: "a", StartTime: ptr(t0.Add(time.Minute))}},
	}
	SortEntries(entries)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.Live.VideoID)
	}
	assert.Equal(t, []string{"a", "b", "old", "ended"}, ids)
}

func TestLiveState_Terminal(t *testing.T) {
	assert.True(t, StateEnded.Terminal())
	assert.True(t, StateUnavailable.Terminal())
	assert.False(t, StateLive.Terminal())
	assert.False(t, StateUpcoming.Terminal())
	assert.False(t, StateStaleUpcoming.Cached())
	assert.False(t, StateNotLivestream.Cached())
}

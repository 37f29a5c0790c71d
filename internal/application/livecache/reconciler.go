package livecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/live-redirect-api/internal/application/livestatus"
	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/pkg/id"
)

type notifyQueue interface {
	PendingForWindow(ctx context.Context, dayKeys []string, force bool) ([]domain.NotifiedVideoRecord, error)
	MarkProcessed(ctx context.Context, videoIDs []string, dayKeys []string, at time.Time) error
}

type statusResolver interface {
	Resolve(ctx context.Context, ids []string, now time.Time) livestatus.Resolution
}

type channelDirectory interface {
	Get(ctx context.Context, channelID string) (*domain.ChannelInfo, error)
}

// Reconciler merges freshly resolved live statuses into the day's cache bucket.
// Concurrent passes are not coordinated: the last write of the bucket wins and the
// next pass converges again.
type Reconciler struct {
	queue         notifyQueue
	resolver      statusResolver
	channels      channelDirectory
	store         *Store
	retentionDays int
}

func NewReconciler(queue notifyQueue, resolver statusResolver, channels channelDirectory, store *Store, retentionDays int) *Reconciler {
	return &Reconciler{
		queue:         queue,
		resolver:      resolver,
		channels:      channels,
		store:         store,
		retentionDays: retentionDays,
	}
}

// Reconcile runs one full pass at now and persists the merged bucket for today.
// With force, processed notifications and already ended entries are resolved again
// and a fresh result may replace a terminal one.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time, force bool) (*domain.DailyCacheDocument, error) {
	now = now.UTC()
	log := slog.With("run_id", id.New(), "force", force)
	days := domain.WindowKeys(now)
	today := days[len(days)-1]

	merged, err := r.loadWindow(ctx, days, now, log)
	if err != nil {
		return nil, err
	}
	p := &pass{
		reconciler: r,
		merged:     merged,
		channels:   make(map[string]*domain.ChannelInfo),
		now:        now,
		force:      force,
		log:        log,
	}

	pending, err := r.queue.PendingForWindow(ctx, days, force)
	if err != nil {
		return nil, err
	}
	notified := make([]string, 0, len(pending))
	for _, rec := range pending {
		notified = append(notified, rec.VideoID)
	}
	queried := p.selectForQuery(notified)
	log.Info("resolving notified videos", "pending", len(pending), "queried", len(queried))

	processed, err := p.resolveAndMerge(ctx, queried)
	if err != nil {
		return nil, err
	}
	if err := r.queue.MarkProcessed(ctx, processed, days, now); err != nil {
		return nil, err
	}

	// Entries still open are re-checked whether or not their notification was processed.
	alreadyQueried := make(map[string]struct{}, len(queried))
	for _, vid := range queried {
		alreadyQueried[vid] = struct{}{}
	}
	var open []string
	for _, vid := range p.merged.order {
		if p.merged.byID[vid].Live.Ended() {
			continue
		}
		if _, ok := alreadyQueried[vid]; ok {
			continue
		}
		open = append(open, vid)
	}
	lazy := p.selectForQuery(open)
	if len(lazy) > 0 {
		log.Info("lazy refresh of open entries", "open", len(open), "queried", len(lazy))
		if _, err := p.resolveAndMerge(ctx, lazy); err != nil {
			return nil, err
		}
	}

	doc := &domain.DailyCacheDocument{
		UpdatedAt: now,
		Channels:  p.merged.entries(),
	}
	domain.SortEntries(doc.Channels)
	if err := r.store.Set(ctx, today, doc); err != nil {
		return nil, err
	}
	log.Info("live cache reconciled", "day", today, "entries", len(doc.Channels), "processed", len(processed))
	return doc, nil
}

// loadWindow unions the window's buckets, later days merged on top, and drops entries
// that ended before the retention window.
func (r *Reconciler) loadWindow(ctx context.Context, days []string, now time.Time, log *slog.Logger) (*entrySet, error) {
	set := newEntrySet()
	cutoff := now.AddDate(0, 0, -r.retentionDays)
	for _, day := range days {
		doc, err := r.store.Get(ctx, day)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			continue
		}
		for _, e := range doc.Channels {
			if e.Live.VideoID == "" {
				continue
			}
			if e.Live.EndTime != nil && e.Live.EndTime.Before(cutoff) {
				log.Debug("dropping expired entry", "video_id", e.Live.VideoID, "end_time", e.Live.EndTime)
				continue
			}
			if prev, ok := set.byID[e.Live.VideoID]; ok {
				set.put(domain.MergeEntry(prev, e, false))
				continue
			}
			set.put(e)
		}
	}
	return set, nil
}

// pass carries the state of one reconciliation run.
type pass struct {
	reconciler *Reconciler
	merged     *entrySet
	channels   map[string]*domain.ChannelInfo // nil value caches a miss
	now        time.Time
	force      bool
	log        *slog.Logger
}

// selectForQuery drops ended entries and upcoming entries still outside the start window.
func (p *pass) selectForQuery(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, vid := range ids {
		cached, ok := p.merged.byID[vid]
		if ok && !p.force {
			if cached.Live.Ended() {
				continue
			}
			if cached.Live.IsUpcoming && cached.Live.StartTime != nil &&
				cached.Live.StartTime.After(p.now.Add(livestatus.UpcomingWindow)) {
				continue
			}
		}
		out = append(out, vid)
	}
	return out
}

// resolveAndMerge resolves ids and folds the results into the merged set.
// It returns every id that reached a decision, including those dropped for an unknown channel.
func (p *pass) resolveAndMerge(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	res := p.reconciler.resolver.Resolve(ctx, ids, p.now)
	if len(res.Failed) > 0 {
		p.log.Warn("videos left unprocessed after provider failure", "count", len(res.Failed))
	}

	processed := make([]string, 0, len(res.Results))
	for _, result := range res.Results {
		processed = append(processed, result.VideoID)
		old, hasOld := p.merged.byID[result.VideoID]

		if !result.State.Cached() {
			if hasOld && !old.Live.Ended() {
				p.merged.remove(result.VideoID)
			}
			p.log.Debug("video not cached", "video_id", result.VideoID, "state", result.State)
			continue
		}

		fresh, ok, err := p.entryFor(ctx, result)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if hasOld {
			fresh = domain.MergeEntry(old, fresh, p.force)
		}
		p.merged.put(fresh)
	}
	return processed, nil
}

// entryFor attaches channel display data. ok is false when the channel directory
// does not know the channel.
func (p *pass) entryFor(ctx context.Context, result livestatus.Result) (domain.ChannelCacheEntry, bool, error) {
	live := result.Status
	if result.State == domain.StateUnavailable {
		return domain.ChannelCacheEntry{CountryCode: []string{}, Live: live}, true, nil
	}
	info, err := p.channel(ctx, result.ChannelID)
	if err != nil {
		return domain.ChannelCacheEntry{}, false, err
	}
	if info == nil {
		p.log.Warn("unknown channel, entry dropped", "video_id", result.VideoID, "channel_id", result.ChannelID)
		return domain.ChannelCacheEntry{}, false, nil
	}
	countries := info.CountryCode
	if countries == nil {
		countries = []string{}
	}
	return domain.ChannelCacheEntry{
		ChannelID:   info.ChannelID,
		Name:        info.Name,
		Thumbnail:   info.Thumbnail,
		Badge:       info.Badge,
		CountryCode: countries,
		Live:        live,
	}, true, nil
}

func (p *pass) channel(ctx context.Context, channelID string) (*domain.ChannelInfo, error) {
	if channelID == "" {
		return nil, nil
	}
	if info, ok := p.channels[channelID]; ok {
		return info, nil
	}
	info, err := p.reconciler.channels.Get(ctx, channelID)
	if errors.Is(err, domain.ErrNotFound) {
		p.channels[channelID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel %s: %w", channelID, err)
	}
	if info.ChannelID == "" {
		info.ChannelID = channelID
	}
	p.channels[channelID] = info
	return info, nil
}

// entrySet keeps entries unique by video ID in first-seen order.
type entrySet struct {
	byID  map[string]domain.ChannelCacheEntry
	order []string
}

func newEntrySet() *entrySet {
	return &entrySet{byID: make(map[string]domain.ChannelCacheEntry)}
}

func (s *entrySet) put(e domain.ChannelCacheEntry) {
	vid := e.Live.VideoID
	if _, ok := s.byID[vid]; !ok {
		s.order = append(s.order, vid)
	}
	s.byID[vid] = e
}

func (s *entrySet) remove(vid string) {
	if _, ok := s.byID[vid]; !ok {
		return
	}
	delete(s.byID, vid)
	for i, v := range s.order {
		if v == vid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *entrySet) entries() []domain.ChannelCacheEntry {
	out := make([]domain.ChannelCacheEntry, 0, len(s.order))
	for _, vid := range s.order {
		out = append(out, s.byID[vid])
	}
	return out
}

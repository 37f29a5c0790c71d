// Package subscription registers tracked channels with the WebSub hub.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/live-redirect-api/internal/metrics"
)

// ErrRejected is returned when the hub refused a subscription after every allowed attempt.
var ErrRejected = errors.New("hub rejected subscription")

// Summary reports a subscribe-all run.
type Summary struct {
	Requested  int      `json:"requested"`
	Subscribed int      `json:"subscribed"`
	Failed     []string `json:"failed,omitempty"`
}

type Service interface {
	SubscribeAll(ctx context.Context) (Summary, error)
	SubscribeOne(ctx context.Context, channelID string) error
}

type hub interface {
	Subscribe(ctx context.Context, channelID string) (int, error)
}

type channelLister interface {
	List(ctx context.Context) ([]domain.ChannelInfo, error)
}

type publisher interface {
	Publish(ctx context.Context, subject, message string) error
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type service struct {
	hub      hub
	channels channelLister
	notifier publisher // optional
	policy   Policy
	gap      time.Duration
	wait     WaitFunc
}

// NewService builds the subscriber. gap is the pause between channels in SubscribeAll.
func NewService(h hub, channels channelLister, notifier publisher, policy Policy, gap time.Duration) Service {
	return &service{hub: h, channels: channels, notifier: notifier, policy: policy, gap: gap, wait: sleep}
}

func (s *service) SubscribeAll(ctx context.Context) (Summary, error) {
	channels, err := s.channels.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list channels: %w", err)
	}
	if len(channels) == 0 {
		return Summary{}, fmt.Errorf("no channels to subscribe: %w", domain.ErrBadRequest)
	}

	var sum Summary
	for _, c := range channels {
		if c.ChannelID == "" {
			continue
		}
		if sum.Requested > 0 && s.gap > 0 {
			if err := s.wait(ctx, s.gap); err != nil {
				return sum, err
			}
		}
		sum.Requested++
		if err := s.SubscribeOne(ctx, c.ChannelID); err != nil {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Failed = append(sum.Failed, c.ChannelID)
			continue
		}
		sum.Subscribed++
	}

	slog.Info("websub subscribe-all finished", "requested", sum.Requested, "subscribed", sum.Subscribed, "failed", len(sum.Failed))
	if s.notifier != nil && len(sum.Failed) > 0 {
		msg := fmt.Sprintf("subscribed %d of %d channels; failed: %s", sum.Subscribed, sum.Requested, strings.Join(sum.Failed, ", "))
		if err := s.notifier.Publish(ctx, "websub subscriptions", msg); err != nil {
			slog.Warn("subscription summary not published", "error", err)
		}
	}
	return sum, nil
}

func (s *service) SubscribeOne(ctx context.Context, channelID string) error {
	for attempt := 1; ; attempt++ {
		status, err := s.hub.Subscribe(ctx, channelID)
		if err != nil {
			slog.Error("websub subscribe request failed", "channel_id", channelID, "error", err)
			metrics.HubSubscriptions.WithLabelValues("failed").Inc()
			return err
		}

		d := s.policy.Next(attempt, status)
		switch d.Action {
		case ActionDone:
			metrics.HubSubscriptions.WithLabelValues("accepted").Inc()
			return nil
		case ActionRetry:
			slog.Warn("websub subscribe will retry", "channel_id", channelID, "status", status, "attempt", attempt, "delay", d.Delay)
			metrics.HubSubscriptions.WithLabelValues("retried").Inc()
			if err := s.wait(ctx, d.Delay); err != nil {
				return err
			}
		default:
			slog.Warn("websub subscribe rejected", "channel_id", channelID, "status", status, "attempt", attempt)
			metrics.HubSubscriptions.WithLabelValues("failed").Inc()
			return fmt.Errorf("channel %s: status %d: %w", channelID, status, ErrRejected)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

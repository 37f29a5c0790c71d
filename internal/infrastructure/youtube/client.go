// Package youtube adapts the YouTube Data API v3 videos.list endpoint into domain.VideoMetadata.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/live-redirect-api/internal/domain"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// MaxIDsPerCall is the videos.list limit on ids per request.
const MaxIDsPerCall = 50

var videoParts = []string{"snippet", "liveStreamingDetails", "status"}

// ClientOption configures the Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL          string
	httpClient       *http.Client
	failureThreshold uint32
	openTimeout      time.Duration
}

// WithBaseURL points the client at a different API host (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client. The API key is not attached when this is set.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithBreaker tunes how many consecutive failed batches open the circuit and how long it stays open.
func WithBreaker(failureThreshold uint32, openTimeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.failureThreshold = failureThreshold
		o.openTimeout = openTimeout
	}
}

// Client fetches video metadata one batch at a time behind a circuit breaker.
type Client struct {
	svc     *ytapi.Service
	breaker *gobreaker.CircuitBreaker[[]domain.VideoMetadata]
}

// NewClient creates a metadata client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	o := clientOptions{failureThreshold: 5, openTimeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	gopts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		gopts = append(gopts, option.WithEndpoint(strings.TrimRight(o.baseURL, "/")+"/"))
	}
	if o.httpClient != nil {
		gopts = append(gopts, option.WithHTTPClient(o.httpClient))
	}
	svc, err := ytapi.NewService(ctx, gopts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	threshold := o.failureThreshold
	breaker := gobreaker.NewCircuitBreaker[[]domain.VideoMetadata](gobreaker.Settings{
		Name:    "youtube-videos",
		Timeout: o.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Client{svc: svc, breaker: breaker}, nil
}

// FetchVideos calls videos.list for at most MaxIDsPerCall ids.
// Videos the API does not return (deleted, private to others) are simply absent from the result.
// Any failure is returned as *domain.ProviderError.
func (c *Client) FetchVideos(ctx context.Context, ids []string) ([]domain.VideoMetadata, error) {
	if len(ids) == 0 {
		return []domain.VideoMetadata{}, nil
	}
	if len(ids) > MaxIDsPerCall {
		return nil, fmt.Errorf("fetch videos: %d ids exceeds limit of %d: %w", len(ids), MaxIDsPerCall, domain.ErrBadRequest)
	}

	videos, err := c.breaker.Execute(func() ([]domain.VideoMetadata, error) {
		resp, err := c.svc.Videos.List(videoParts).Id(ids...).Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		out := make([]domain.VideoMetadata, 0, len(resp.Items))
		for _, item := range resp.Items {
			out = append(out, toMetadata(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, toProviderError(err)
	}
	return videos, nil
}

func toProviderError(err error) error {
	var gerr *googleapi.Error
	switch {
	case errors.As(err, &gerr):
		return &domain.ProviderError{StatusCode: gerr.Code, Err: err}
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.ProviderError{StatusCode: http.StatusServiceUnavailable, Err: err}
	default:
		return &domain.ProviderError{Err: err}
	}
}

func toMetadata(item *ytapi.Video) domain.VideoMetadata {
	m := domain.VideoMetadata{ID: item.Id}
	if item.Snippet != nil {
		m.Title = item.Snippet.Title
		m.ChannelID = item.Snippet.ChannelId
	}
	if item.Status != nil {
		m.PrivacyStatus = item.Status.PrivacyStatus
	}
	if d := item.LiveStreamingDetails; d != nil {
		m.LiveDetails = &domain.LiveStreamingDetails{
			ActualStartTime:    d.ActualStartTime,
			ScheduledStartTime: d.ScheduledStartTime,
			ActualEndTime:      d.ActualEndTime,
			ConcurrentViewers:  int64(d.ConcurrentViewers),
		}
	}
	return m
}

package subscription

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Next(t *testing.T) {
	p := Policy{MaxAttempts: 2, RetryDelay: time.Minute}
	tests := []struct {
		name    string
		attempt int
		status  int
		want    Decision
	}{
		{"accepted", 1, http.StatusAccepted, Decision{Action: ActionDone}},
		{"no content", 1, http.StatusNoContent, Decision{Action: ActionDone}},
		{"throttled first attempt", 1, http.StatusTooManyRequests, Decision{Action: ActionRetry, Delay: time.Minute}},
		{"server error first attempt", 1, http.StatusBadGateway, Decision{Action: ActionRetry, Delay: time.Minute}},
		{"throttled last attempt", 2, http.StatusTooManyRequests, Decision{Action: ActionGiveUp}},
		{"server error last attempt", 2, http.StatusInternalServerError, Decision{Action: ActionGiveUp}},
		{"bad request", 1, http.StatusBadRequest, Decision{Action: ActionGiveUp}},
		{"forbidden", 1, http.StatusForbidden, Decision{Action: ActionGiveUp}},
		{"no response", 1, 0, Decision{Action: ActionGiveUp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Next(tt.attempt, tt.status))
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 2, p.MaxAttempts)
	assert.Equal(t, 60*time.Second, p.RetryDelay)
}

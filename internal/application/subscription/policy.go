package subscription

import (
	"net/http"
	"time"
)

// Action is what to do after a subscribe attempt.
type Action int

const (
	ActionDone Action = iota
	ActionRetry
	ActionGiveUp
)

func (a Action) String() string {
	switch a {
	case ActionDone:
		return "done"
	case ActionRetry:
		return "retry"
	default:
		return "give_up"
	}
}

// Decision pairs an Action with how long to wait before retrying.
type Decision struct {
	Action Action
	Delay  time.Duration
}

// Policy retries throttled or failing hub responses a bounded number of times after a fixed delay.
type Policy struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultPolicy allows one retry a minute later.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 2, RetryDelay: 60 * time.Second}
}

// Next decides what follows attempt (1-based) that ended with status.
// A status of 0 means no response was received, which is not retried.
func (p Policy) Next(attempt, status int) Decision {
	switch {
	case status >= 200 && status < 300:
		return Decision{Action: ActionDone}
	case status == http.StatusTooManyRequests || status >= 500:
		if attempt < p.MaxAttempts {
			return Decision{Action: ActionRetry, Delay: p.RetryDelay}
		}
	}
	return Decision{Action: ActionGiveUp}
}

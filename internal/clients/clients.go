// Package clients holds the outbound integrations: transactional messaging,
// the newsletter list provider, the spot price feed and the LLM assistant.
package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

var ErrNotConfigured = errors.New("integration is not configured")

const defaultTimeout = 10 * time.Second

// StatusError is returned when a provider answers outside the 2xx range.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func newAgent(ctx context.Context, agent *fiber.Agent) *fiber.Agent {
	timeout := defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return agent.Timeout(timeout).JSONEncoder(json.Marshal).JSONDecoder(json.Unmarshal)
}

// do sends the prepared agent and returns the body of a 2xx answer.
func do(ctx context.Context, agent *fiber.Agent) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, status, errors.Join(errs...)
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return body, status, &StatusError{Status: status, Body: truncate(string(body), 256)}
	}

	return body, status, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

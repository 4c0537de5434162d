package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/shopify/dto"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// HTTPStatusError is a non-2xx response from the upstream API.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("shopify request failed: %s", e.Status)
	}
	return fmt.Sprintf("shopify request failed: %s: %s", e.Status, e.Body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	b := strings.TrimSpace(string(body))
	if len(b) > 512 {
		b = b[:512]
	}
	return &HTTPStatusError{
		StatusCode: statusCode,
		Status:     status,
		Body:       b,
	}
}

// GraphQLError is an application-level error payload in an otherwise
// successful response.
type GraphQLError struct {
	Errors []dto.GraphQLError
}

func (e *GraphQLError) Error() string {
	return "shopify graphql errors: " + formatGraphQLErrors(e.Errors)
}

// Throttled reports whether upstream rejected the query for rate limiting.
func (e *GraphQLError) Throttled() bool {
	for _, ge := range e.Errors {
		if strings.Contains(strings.ToLower(ge.Message), "throttled") {
			return true
		}
		if code, ok := ge.Extensions["code"].(string); ok && strings.EqualFold(code, "THROTTLED") {
			return true
		}
	}
	return false
}

// Only rate limiting and transient gateway failures are retried. Timeouts and
// network errors surface immediately.
func isRetryable(err error) bool {
	var httpErr *HTTPStatusError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true
		}
		return false
	}

	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return gqlErr.Throttled()
	}

	return false
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	delay := retryBaseDelay << attempt
	if delay > retryMaxDelay || delay <= 0 {
		delay = retryMaxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatGraphQLErrors(errs []dto.GraphQLError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			continue
		}
		if len(e.Path) > 0 {
			msg = fmt.Sprintf("%s (path: %v)", msg, e.Path)
		}
		parts = append(parts, msg)
	}
	if len(parts) == 0 {
		return "unknown graphql error"
	}
	return strings.Join(parts, "; ")
}

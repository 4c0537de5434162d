package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/Sagarkrsahu2005/Soumya-Furnishing-sub000/internal/api/operatorctx"
)

// HTTP header used for idempotent requests
const IdempotencyHeaderKey = "Idempotency-Key"

type cachedResponse struct {
	statusCode int
	body       []byte
	expiresAt  time.Time
}

// ResponseCache keeps replayable responses per operator, endpoint and key.
type ResponseCache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]cachedResponse
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResponseCache{
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
		m:   make(map[string]cachedResponse),
	}
}

func (c *ResponseCache) get(key string) (cachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.m[key]
	if !ok {
		return cachedResponse{}, false
	}
	if !c.now().Before(rec.expiresAt) {
		delete(c.m, key)
		return cachedResponse{}, false
	}
	return rec, true
}

func (c *ResponseCache) put(key string, status int, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m[key] = cachedResponse{
		statusCode: status,
		body:       append([]byte(nil), body...),
		expiresAt:  c.now().Add(c.ttl),
	}
}

// IdempotencyMiddleware replays the first response for a repeated
// Idempotency-Key so a retried trigger does not surface as a conflict.
type IdempotencyMiddleware struct {
	Cache *ResponseCache
	Next  http.Handler
}

func (m IdempotencyMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.Next == nil || m.Cache == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		m.Next.ServeHTTP(w, r)
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get(IdempotencyHeaderKey))
	if idemKey == "" {
		m.Next.ServeHTTP(w, r)
		return
	}

	endpoint := strings.TrimSpace(r.URL.Path)
	if endpoint == "" {
		endpoint = "/"
	}
	key := operatorctx.Operator(r.Context()) + "|" + endpoint + "|" + sha256Hex(idemKey)

	if rec, ok := m.Cache.get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(rec.statusCode)
		_, _ = w.Write(rec.body)
		return
	}

	if r.Body != nil {
		reqBody, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	rr := httptest.NewRecorder()
	m.Next.ServeHTTP(rr, r)

	for k, vals := range rr.Header() {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	status := rr.Code
	if status == 0 {
		status = http.StatusOK
	}

	w.WriteHeader(status)
	_, _ = w.Write(rr.Body.Bytes())

	// server errors are not replayed
	if status < http.StatusInternalServerError {
		m.Cache.put(key, status, rr.Body.Bytes())
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

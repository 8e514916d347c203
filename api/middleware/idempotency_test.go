package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryIdempotencyStore struct {
	values map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{values: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memoryIdempotencyStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = fmt.Sprint(value)
	return nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func checkoutRequest(body, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotencyRequiresHeaderOnGuardedRoutes(t *testing.T) {
	handler := Idempotency(newMemoryIdempotencyStore(), nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, checkoutRequest(`{"payment_mode":"Cash"}`, ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order_id":1}}`))
	}))

	body := `{"payment_mode":"Cash"}`

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(body, "key-1"))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(body, "key-1"))
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: expected 201 got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("replayed body must match the original response")
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, expected 1", calls.Load())
	}
}

func TestIdempotencyDoesNotPinFailures(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":{"code":"INSUFFICIENT_STOCK"}}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order_id":1}}`))
	}))

	body := `{"payment_mode":"Cash"}`

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(body, "key-1"))
	if first.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", first.Code)
	}
	if len(store.values) != 0 {
		t.Fatal("failed responses must not be recorded")
	}

	// The same key retries cleanly once the underlying state allows it.
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(body, "key-1"))
	if second.Code != http.StatusCreated {
		t.Fatalf("retry: expected 201 got %d", second.Code)
	}
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, expected 2", calls.Load())
	}
}

func TestIdempotencyKeyReuseWithDifferentBodyConflicts(t *testing.T) {
	store := newMemoryIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest(`{"payment_mode":"Cash"}`, "key-1"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest(`{"payment_mode":"Cashless"}`, "key-1"))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", second.Code)
	}
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/snacks", nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, expected 2", calls.Load())
	}
	if len(store.values) != 0 {
		t.Fatal("unguarded routes must not be recorded")
	}
}

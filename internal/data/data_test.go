package data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xuefei993/renewables/internal/model"
)

func TestServiceClientPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/echo" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	c := NewServiceClient(srv.URL+"/", time.Second)
	var out struct{ Value int }
	if err := c.PostJSON(context.Background(), "/api/echo", map[string]int{"a": 1}, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out.Value != 7 {
		t.Errorf("value = %d, want 7", out.Value)
	}
}

func TestServiceClientStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "BAD_REQUEST"},
		{http.StatusForbidden, "UNAUTHORIZED"},
		{http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{http.StatusServiceUnavailable, "UNAVAILABLE"},
		{http.StatusTeapot, "API_ERROR"},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))
		err := NewServiceClient(srv.URL, time.Second).GetJSON(context.Background(), "/x", nil)
		srv.Close()

		var se *ServiceError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: expected ServiceError, got %v", tt.status, err)
		}
		if se.Code != tt.code || se.StatusCode != tt.status {
			t.Errorf("status %d: got %s/%d", tt.status, se.Code, se.StatusCode)
		}
	}
}

func TestIsUnavailable(t *testing.T) {
	err := NewServiceClient("http://127.0.0.1:1", 200*time.Millisecond).GetJSON(context.Background(), "/", nil)
	if !IsUnavailable(err) {
		t.Errorf("connection failure should be unavailable, got %v", err)
	}
	if IsUnavailable(&ServiceError{Code: "BAD_REQUEST"}) {
		t.Error("bad request is not unavailable")
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	c := NewResponseCache(time.Hour)
	defer c.Close()

	resp := &model.ComparisonResponse{Synthetic: true}
	c.Set("k", resp)
	if got, ok := c.Get("k"); !ok || got != resp {
		t.Fatalf("expected cache hit")
	}
	c.sweep(time.Now().Add(2 * time.Hour))
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have been swept")
	}
	if c.Len() != 0 {
		t.Errorf("len = %d after sweep", c.Len())
	}
}

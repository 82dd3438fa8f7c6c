package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const samplePayload = `{"text":"XBY","author":"Anon","map":{"C":"X","A":"B","T":"Y"}}`

func TestQuoteSendsCacheBuster(t *testing.T) {
	var gotPath, gotDT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDT = r.URL.Query().Get("dt")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	c.now = func() time.Time { return time.Date(2024, 3, 9, 18, 0, 0, 500, time.UTC) }

	eq, err := c.Quote(context.Background())
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if gotPath != "/quotes" {
		t.Errorf("path = %q", gotPath)
	}
	if gotDT != "2024-03-09T18:00:00.0000005Z" {
		t.Errorf("dt = %q", gotDT)
	}
	if eq.Text != "XBY" || eq.Author != "Anon" || eq.Map["C"] != "X" {
		t.Errorf("unexpected payload: %+v", eq)
	}
}

func TestDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quotes/daily" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	eq, err := New(srv.URL, nil).Daily(context.Background())
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if eq.Author != "Anon" {
		t.Errorf("author = %q", eq.Author)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"generate_failed"}`))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "bad body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(srv.URL, nil).Quote(context.Background())
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *FetchError", err)
			}
			if fe.Op != "quote" || fe.Status != tt.wantStatus {
				t.Errorf("FetchError = %+v", fe)
			}
		})
	}
}

func TestFetchErrorOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, nil).Quote(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != 0 {
		t.Fatalf("err = %v", err)
	}
}

func TestCancelledContextUnwraps(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL, nil).Quote(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRoundTrackerDropsStaleCompletions(t *testing.T) {
	var tr RoundTracker

	ctx1, first := tr.Begin(context.Background())
	if !tr.Loading() {
		t.Fatal("expected loading after Begin")
	}
	_, second := tr.Begin(context.Background())

	if ctx1.Err() == nil {
		t.Error("first request was not cancelled")
	}
	if tr.Accept(first) {
		t.Error("stale token accepted")
	}
	if !tr.Loading() {
		t.Error("stale completion cleared loading")
	}
	if !tr.Accept(second) {
		t.Error("current token rejected")
	}
	if tr.Loading() {
		t.Error("still loading after accept")
	}
}

func TestRoundTrackerCancel(t *testing.T) {
	var tr RoundTracker
	ctx, token := tr.Begin(context.Background())
	tr.Cancel()

	if ctx.Err() == nil {
		t.Error("context not cancelled")
	}
	if tr.Loading() {
		t.Error("loading after Cancel")
	}
	if tr.Accept(token) {
		t.Error("cancelled request accepted")
	}
}

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnabled(t *testing.T) {
	if New("").Enabled() {
		t.Fatal("client without key must be disabled")
	}
	if !New("k").Enabled() {
		t.Fatal("client with key must be enabled")
	}
}

func TestSearch_parsesOrganicResults(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q": q.Get("q"), "num": q.Get("num"), "hl": q.Get("hl"), "api_key": q.Get("api_key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[
			{"title":"NIH sleep","link":"https://www.nih.gov/sleep"},
			{"title":"no link entry"},
			{"title":"CDC","link":"https://cdc.gov/x"}
		]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("secret", srv.URL)
	results, err := c.Search(context.Background(), "insomnia medical", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery["q"] != "insomnia medical" || gotQuery["num"] != "5" || gotQuery["hl"] != "en" || gotQuery["api_key"] != "secret" {
		t.Fatalf("unexpected query params: %v", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (link-less entries dropped): %v", len(results), results)
	}
	if results[0].Title != "NIH sleep" || results[1].Link != "https://cdc.gov/x" {
		t.Fatalf("wrong results or order: %v", results)
	}
}

func TestSearch_nonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewWithBaseURL("k", srv.URL).Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestSearch_disabledClient(t *testing.T) {
	if _, err := New("").Search(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error from disabled client")
	}
}

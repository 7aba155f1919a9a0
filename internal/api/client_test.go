package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestSearchMediaQueryParams(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []MediaItem{
			{TMDBID: 268, MediaType: "movie", Title: "Batman", Year: 1989,
				Availability: Availability{Status: StatusAvailableToRequest}},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	results, err := client.SearchMedia(context.Background(), "batman", AppSonarr, "main")
	if err != nil {
		t.Fatalf("SearchMedia() error = %v", err)
	}

	if gotPath != "/api/requestarr/search" {
		t.Errorf("path = %q, want /api/requestarr/search", gotPath)
	}
	wantQuery := "app_type=sonarr&instance_name=main&q=batman"
	if gotQuery != wantQuery {
		t.Errorf("query = %q, want %q", gotQuery, wantQuery)
	}
	if len(results) != 1 || results[0].Title != "Batman" {
		t.Errorf("results = %+v, want one Batman item", results)
	}
}

func TestSearchMediaBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{Error: "no instance configured"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SearchMedia(context.Background(), "batman", AppRadarr, "main")
	if err == nil {
		t.Fatal("SearchMedia() expected error for error payload")
	}
	if IsRetryable(err) {
		t.Error("backend payload errors should not be retryable")
	}
}

func TestRequestMedia(t *testing.T) {
	var got RequestPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/requestarr/request" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(RequestResult{Success: true, Message: "queued"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	payload := RequestPayload{
		TMDBID: 268, MediaType: "movie", Title: "Batman", Year: 1989,
		AppType: AppRadarr, InstanceName: "4k",
	}
	result, err := client.RequestMedia(context.Background(), payload)
	if err != nil {
		t.Fatalf("RequestMedia() error = %v", err)
	}
	if !result.Success || result.Message != "queued" {
		t.Errorf("result = %+v, want success/queued", result)
	}
	if got.TMDBID != 268 || got.AppType != AppRadarr || got.InstanceName != "4k" {
		t.Errorf("posted payload = %+v", got)
	}
}

func TestRequestarrInstances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/requestarr/instances" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(InstanceSet{
			Sonarr: []Instance{{Name: "tv-main"}},
			Radarr: []Instance{{Name: "movies"}, {Name: "4k"}},
		})
	}))
	defer srv.Close()

	set, err := NewClient(srv.URL).RequestarrInstances(context.Background())
	if err != nil {
		t.Fatalf("RequestarrInstances() error = %v", err)
	}
	if len(set.Sonarr) != 1 || len(set.Radarr) != 2 {
		t.Errorf("instances = %+v", set)
	}
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sonarr/test-connection" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["api_url"] != "http://sonarr:8989" || body["api_key"] != "secret" {
			t.Errorf("body = %v", body)
		}
		_ = json.NewEncoder(w).Encode(ConnectionResult{Success: true, Version: "4.0.1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.TestConnection(context.Background(), AppSonarr, "http://sonarr:8989", "secret")
	if err != nil {
		t.Fatalf("TestConnection() error = %v", err)
	}
	if !result.Success || result.Version != "4.0.1" {
		t.Errorf("result = %+v", result)
	}

	if _, err := client.TestConnection(context.Background(), "plex", "", ""); err == nil {
		t.Error("TestConnection() should reject unknown app types")
	}
}

func TestResetStatefulFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "instance busy"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).ResetStateful(context.Background(), AppSonarr, "main")
	if err == nil {
		t.Fatal("ResetStateful() expected error")
	}
	if ShortMessage(err) != "instance busy" {
		t.Errorf("ShortMessage() = %q, want %q", ShortMessage(err), "instance busy")
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(InstanceSet{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.RetryDelay = 0

	if _, err := client.RequestarrInstances(context.Background()); err != nil {
		t.Fatalf("RequestarrInstances() error = %v after retries", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.RetryDelay = 0

	if _, err := client.RequestarrInstances(context.Background()); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

package osi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/feluda/pkg/cache"
	"github.com/matzehuels/feluda/pkg/integrations"
)

func TestClient_FetchApproved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"mit","name":"MIT License","spdx_id":"MIT"},
			{"id":"Apache-2.0","name":"Apache License 2.0","keywords":["osi-approved","popular"],
			 "identifiers":[{"identifier":"Apache-2.0","scheme":"SPDX"}]},
			{"id":"JSON","name":"JSON License","keywords":["discouraged","non-reusable"]}
		]`))
	}))
	defer server.Close()

	c := &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "osi:", time.Hour, nil),
		baseURL: server.URL,
	}

	all, err := c.FetchLicenses(context.Background(), true)
	if err != nil {
		t.Fatalf("FetchLicenses failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 licenses, got %+v", all)
	}

	ids, err := c.FetchApproved(context.Background())
	if err != nil {
		t.Fatalf("FetchApproved failed: %v", err)
	}
	if !slices.Equal(ids, []string{"MIT", "Apache-2.0"}) {
		t.Errorf("approved = %v", ids)
	}
}

func TestClient_FetchApproved_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "osi:", time.Hour, nil),
		baseURL: server.URL,
	}
	if _, err := c.FetchApproved(context.Background()); err == nil {
		t.Error("expected error")
	}
}

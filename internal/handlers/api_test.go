// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cruisy/internal/catalog"
	"cruisy/internal/kv"
	"cruisy/internal/profile"
)

func newTestAPI(fetcher *fakeFetcher) (*API, *profile.Store) {
	profiles := profile.NewStore(kv.NewMemory())
	return NewAPI(catalog.New(fetcher, nil), profiles, nil, testPublicBase), profiles
}

func TestItineraries(t *testing.T) {
	api, _ := newTestAPI(&fakeFetcher{list: testItineraries})

	tests := []struct {
		target    string
		wantCount int
	}{
		{"/api/v1/itineraries", 3},
		{"/api/v1/itineraries?destination=key%20west", 2},
		{"/api/v1/itineraries?destination=MIAMI", 1},
		{"/api/v1/itineraries?destination=Atlantis", 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			api.Itineraries(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
			}
			var got itineraryList
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Count != tt.wantCount || len(got.Items) != tt.wantCount {
				t.Errorf("count: got %d (%d items), want %d", got.Count, len(got.Items), tt.wantCount)
			}
			if got.Items == nil {
				t.Error("items should encode as [] rather than null")
			}
		})
	}
}

func TestItineraries_UpstreamFailure(t *testing.T) {
	api, _ := newTestAPI(&fakeFetcher{err: errors.New("down")})

	rec := httptest.NewRecorder()
	api.Itineraries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/itineraries", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestAmbassador(t *testing.T) {
	api, profiles := newTestAPI(&fakeFetcher{list: testItineraries})
	profiles.Save(context.Background(), "jane-doe", profile.New("Jane Doe", "jane-doe", "jane@example.com"), profile.Selection{43, 42, 999})

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/ambassadors/jane-doe", nil), "slug", "jane-doe")
	rec := httptest.NewRecorder()
	api.Ambassador(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["email"]; ok {
		t.Error("email must not be exposed")
	}

	var card ambassadorCard
	json.Unmarshal(rec.Body.Bytes(), &card)
	if card.PublicURL != "https://cruisytravel.com/jane-doe" {
		t.Errorf("publicUrl: got %q", card.PublicURL)
	}
	if len(card.Experiences) != 2 || card.Experiences[0].ID != 43 || card.Experiences[1].ID != 42 {
		t.Fatalf("experiences: got %+v, want ids [43 42]", card.Experiences)
	}
	if want := "https://cruisytravel.com/book/reef-snorkel?ref=site&asn=cruisyconcierge&asn-ref=jane-doe"; card.Experiences[0].BookingURL != want {
		t.Errorf("booking url: got %q, want %q", card.Experiences[0].BookingURL, want)
	}
	if card.Approved {
		t.Error("approved should be false without a submission store")
	}
}

func TestAmbassador_NotFound(t *testing.T) {
	api, _ := newTestAPI(&fakeFetcher{list: testItineraries})

	for _, s := range []string{"nobody", "not valid!"} {
		req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/ambassadors/x", nil), "slug", s)
		rec := httptest.NewRecorder()
		api.Ambassador(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("slug %q: got %d, want %d", s, rec.Code, http.StatusNotFound)
		}
	}
}

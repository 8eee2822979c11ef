// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cruisy/internal/models"
)

func serve(t *testing.T, status int, body string) (*Client, *string) {
	t.Helper()
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "itinerary", 2*time.Second), &gotURL
}

func TestFetchAllMapsMinimalPost(t *testing.T) {
	c, gotURL := serve(t, http.StatusOK,
		`[{"id":1,"title":{"rendered":"Snorkel Tour"},"acf":{"destination_tag":"Key West","price":49}}]`)

	list, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 itinerary, got %d", len(list))
	}

	want := models.Itinerary{
		ID:             1,
		Name:           "Snorkel Tour",
		Category:       "General",
		DestinationTag: "Key West",
		Price:          "$49",
		Duration:       "Varies",
	}
	if list[0] != want {
		t.Errorf("got %+v, want %+v", list[0], want)
	}

	if !strings.HasPrefix(*gotURL, "/wp-json/wp/v2/itinerary?") {
		t.Errorf("unexpected request path %q", *gotURL)
	}
	for _, part := range []string{"per_page=100", "_embed"} {
		if !strings.Contains(*gotURL, part) {
			t.Errorf("request %q missing %q", *gotURL, part)
		}
	}
}

func TestFetchAllStatusError(t *testing.T) {
	c, _ := serve(t, http.StatusInternalServerError, `{"code":"oops"}`)

	list, err := c.FetchAll(context.Background())
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError {
		t.Errorf("Code = %d, want 500", se.Code)
	}
}

func TestFetchAllMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>maintenance</html>`},
		{"object instead of array", `{"id":1}`},
		{"truncated", `[{"id":1,`},
		{"null body", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, http.StatusOK, tt.body)
			list, err := c.FetchAll(context.Background())
			if err == nil {
				t.Fatal("expected decode error")
			}
			if len(list) != 0 {
				t.Errorf("expected empty list, got %d", len(list))
			}
		})
	}
}

func TestFetchAllContextCancelled(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchAll(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestDecodeFieldVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.Itinerary
	}{
		{
			name: "empty object gets defaults",
			body: `[{}]`,
			want: models.Itinerary{
				Name: DefaultName, Category: DefaultCategory, DestinationTag: DefaultDestination,
				Price: DefaultPrice, Duration: DefaultDuration,
			},
		},
		{
			name: "acf false",
			body: `[{"id":7,"title":{"rendered":"Sunset Sail"},"acf":false}]`,
			want: models.Itinerary{
				ID: 7, Name: "Sunset Sail", Category: DefaultCategory, DestinationTag: DefaultDestination,
				Price: DefaultPrice, Duration: DefaultDuration,
			},
		},
		{
			name: "acf empty array",
			body: `[{"id":8,"acf":[]}]`,
			want: models.Itinerary{
				ID: 8, Name: DefaultName, Category: DefaultCategory, DestinationTag: DefaultDestination,
				Price: DefaultPrice, Duration: DefaultDuration,
			},
		},
		{
			name: "string price keeps single dollar sign",
			body: `[{"id":2,"acf":{"price":"$120","duration":"3 hours","category":"Water","booking_url":"https://book.example/x"}}]`,
			want: models.Itinerary{
				ID: 2, Name: DefaultName, Category: "Water", DestinationTag: DefaultDestination,
				Price: "$120", Duration: "3 hours", BookingURL: "https://book.example/x",
			},
		},
		{
			name: "html and entities stripped, link fallback, featured media",
			body: `[{"id":3,"link":"https://cruisytravel.com/itinerary/sail/",
				"title":{"rendered":"Sail &amp; <em>Snorkel</em>"},
				"excerpt":{"rendered":"<p>Crystal  clear\n water &#8211; fun.</p>\n"},
				"acf":{"price":0},
				"_embedded":{"wp:featuredmedia":[{"source_url":"https://cdn.example/sail.jpg"}]}}]`,
			want: models.Itinerary{
				ID: 3, Name: "Sail & Snorkel", Category: DefaultCategory, DestinationTag: DefaultDestination,
				Description: "Crystal clear water – fun.", Price: DefaultPrice, Duration: DefaultDuration,
				BookingURL: "https://cruisytravel.com/itinerary/sail/", Img: "https://cdn.example/sail.jpg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("expected 1 itinerary, got %d", len(list))
			}
			if list[0] != tt.want {
				t.Errorf("got  %+v\nwant %+v", list[0], tt.want)
			}
		})
	}
}

func TestDecodeSkipsMalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad id type", `[{"id":"not-a-number"},{"id":4,"title":{"rendered":"Kayak"}}]`},
		{"null record", `[null,{"id":4,"title":{"rendered":"Kayak"}}, null ]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(list) != 1 || list[0].ID != 4 {
				t.Errorf("expected only id 4, got %+v", list)
			}
		})
	}
}

func TestDecodeNullBody(t *testing.T) {
	list, err := Decode([]byte("null"))
	if err == nil {
		t.Fatal("expected an error for a null body")
	}
	if len(list) != 0 {
		t.Errorf("expected no itineraries, got %d", len(list))
	}
}

func TestPriceLabel(t *testing.T) {
	tests := []struct {
		in   flexString
		want string
	}{
		{flexString{Value: "49"}, "$49"},
		{flexString{Value: "$49"}, "$49"},
		{flexString{Value: " 15.5 "}, "$15.5"},
		{flexString{Value: ""}, DefaultPrice},
		{flexString{Value: "0", zero: true}, DefaultPrice},
		{flexString{zero: true}, DefaultPrice},
	}
	for _, tt := range tests {
		if got := priceLabel(tt.in); got != tt.want {
			t.Errorf("priceLabel(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	list := []models.Itinerary{
		{ID: 1, Name: "Snorkel Tour", DestinationTag: "Key West"},
		{ID: 2, Name: "Harbor Walk", DestinationTag: "Nassau"},
		{ID: 3, Name: "Rum Tasting", DestinationTag: "Cozumel", Description: "A taste of KEY WEST in Mexico"},
		{ID: 4, Name: "Old Town Trolley", DestinationTag: "key west"},
	}
	original := append([]models.Itinerary(nil), list...)

	tests := []struct {
		dest string
		want []int64
	}{
		{"", []int64{1, 2, 3, 4}},
		{"Key West", []int64{1, 3, 4}},
		{"  nassau ", []int64{2}},
		{"trolley", []int64{4}},
		{"Juneau", nil},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got := Filter(list, tt.dest)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) returned %d items, want %d", tt.dest, len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Filter(%q)[%d].ID = %d, want %d", tt.dest, i, got[i].ID, id)
				}
			}
		})
	}

	for i := range list {
		if list[i] != original[i] {
			t.Fatalf("Filter modified its input at %d", i)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("https://cruisytravel.com/", "", 0)
	want := "https://cruisytravel.com/wp-json/wp/v2/itinerary?per_page=100&_embed"
	if got := c.Endpoint(); got != want {
		t.Errorf("Endpoint() = %q, want %q", got, want)
	}
}

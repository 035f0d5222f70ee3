package universalis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetRecentlyUpdated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extra/stats/most-recently-updated" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/extra/stats/most-recently-updated")
		}
		if r.URL.Query().Get("world") != "Balmung" {
			t.Errorf("world param = %q, want %q", r.URL.Query().Get("world"), "Balmung")
		}
		if r.URL.Query().Get("entries") != "10" {
			t.Errorf("entries param = %q, want %q", r.URL.Query().Get("entries"), "10")
		}
		w.Write([]byte(`{
			"items": [
				{"itemID": 7, "lastUploadTime": 1714000002000, "worldID": 91, "worldName": "Balmung"},
				{"itemID": 8, "lastUploadTime": 1714000001000, "worldID": 91, "worldName": "Balmung"}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	metas, err := c.GetRecentlyUpdated(context.Background(), "Balmung", 10)
	if err != nil {
		t.Fatalf("GetRecentlyUpdated failed: %v", err)
	}

	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	if metas[0].ItemID != 7 {
		t.Errorf("metas[0].ItemID = %d, want 7", metas[0].ItemID)
	}
	if want := time.UnixMilli(1714000002000).UTC(); !metas[0].UpdatedAt.Equal(want) {
		t.Errorf("metas[0].UpdatedAt = %v, want %v", metas[0].UpdatedAt, want)
	}
	if !metas[0].UpdatedAt.After(metas[1].UpdatedAt) {
		t.Error("entries not newest-first")
	}
}

func TestGetTaxRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tax-rates" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/tax-rates")
		}
		if r.URL.Query().Get("world") != "Balmung" {
			t.Errorf("world param = %q, want %q", r.URL.Query().Get("world"), "Balmung")
		}
		w.Write([]byte(`{"Limsa Lominsa": 3, "Gridania": 3, "Ul'dah": 3, "Kugane": 0, "Crystarium": 5, "Old Sharlayan": 0}`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	rates, err := c.GetTaxRates(context.Background(), "Balmung")
	if err != nil {
		t.Fatalf("GetTaxRates failed: %v", err)
	}

	if len(rates) != 6 {
		t.Fatalf("len(rates) = %d, want 6", len(rates))
	}
	if rates["Crystarium"] != 5 {
		t.Errorf("rates[Crystarium] = %d, want 5", rates["Crystarium"])
	}
	if rates["Kugane"] != 0 {
		t.Errorf("rates[Kugane] = %d, want 0", rates["Kugane"])
	}
}

func TestGetMarketableItemIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/marketable" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/marketable")
		}
		w.Write([]byte(`[2, 3, 5, 6, 7]`))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL))
	ids, err := c.GetMarketableItemIDs(context.Background())
	if err != nil {
		t.Fatalf("GetMarketableItemIDs failed: %v", err)
	}

	if len(ids) != 5 {
		t.Fatalf("len(ids) = %d, want 5", len(ids))
	}
	if ids[0] != 2 || ids[4] != 7 {
		t.Errorf("ids = %v, want [2 3 5 6 7]", ids)
	}
}

package universalis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const singleListingsBody = `{
	"itemID": 7,
	"lastUploadTime": 1714000000000,
	"listings": [
		{
			"listingID": "123456789",
			"lastReviewTime": 1713999000,
			"pricePerUnit": 100,
			"quantity": 3,
			"total": 315,
			"tax": 15,
			"worldID": 91,
			"worldName": "Balmung",
			"hq": false,
			"isCrafted": true,
			"onMannequin": false,
			"retainerID": "987654321",
			"retainerName": "Merchant",
			"retainerCity": 8
		}
	],
	"recentHistory": [
		{
			"hq": false,
			"pricePerUnit": 95,
			"quantity": 2,
			"total": 190,
			"timestamp": 1713998000,
			"onMannequin": false,
			"buyerName": "Buyer Name",
			"worldID": 91,
			"worldName": "Balmung"
		}
	]
}`

const multiListingsBody = `{
	"itemIDs": [7, 8],
	"items": {
		"7": {
			"itemID": 7,
			"lastUploadTime": 1714000000000,
			"listings": [],
			"recentHistory": []
		},
		"8": {
			"itemID": 8,
			"lastUploadTime": 1714000001000,
			"listings": [],
			"recentHistory": []
		}
	}
}`

func TestGetListings(t *testing.T) {
	t.Run("single id yields a scalar result", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if r.URL.Query().Get("listings") != "50" {
				t.Errorf("listings param = %q, want %q", r.URL.Query().Get("listings"), "50")
			}
			if r.URL.Query().Get("entries") != "5" {
				t.Errorf("entries param = %q, want %q", r.URL.Query().Get("entries"), "5")
			}
			w.Write([]byte(singleListingsBody))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		results, err := c.GetListings(context.Background(), 7, "Crystal", ListingOptions{
			ListingLimit: 50,
			HistoryLimit: 5,
		})
		if err != nil {
			t.Fatalf("GetListings failed: %v", err)
		}

		if gotPath != "/Crystal/7" {
			t.Errorf("path = %q, want %q", gotPath, "/Crystal/7")
		}
		if results.ItemID != 7 {
			t.Errorf("ItemID = %d, want 7", results.ItemID)
		}
		if want := time.UnixMilli(1714000000000).UTC(); !results.LastUpdated.Equal(want) {
			t.Errorf("LastUpdated = %v, want %v", results.LastUpdated, want)
		}

		if len(results.Active) != 1 {
			t.Fatalf("len(Active) = %d, want 1", len(results.Active))
		}
		l := results.Active[0]
		if l.ListingID != 123456789 {
			t.Errorf("ListingID = %d, want 123456789", l.ListingID)
		}
		if l.RetainerID != 987654321 {
			t.Errorf("RetainerID = %d, want 987654321", l.RetainerID)
		}
		if l.ItemID != 7 {
			t.Errorf("listing ItemID = %d, want 7", l.ItemID)
		}
		if want := time.Unix(1713999000, 0).UTC(); !l.UpdatedAt.Equal(want) {
			t.Errorf("UpdatedAt = %v, want %v", l.UpdatedAt, want)
		}
		if l.TotalPrice < l.PricePerUnit {
			t.Errorf("TotalPrice %d < PricePerUnit %d", l.TotalPrice, l.PricePerUnit)
		}
		if !l.IsCrafted {
			t.Error("IsCrafted = false, want true")
		}
		if l.RetainerName != "Merchant" || l.RetainerCity != 8 {
			t.Errorf("retainer = %q/%d, want Merchant/8", l.RetainerName, l.RetainerCity)
		}

		if len(results.SaleHistory) != 1 {
			t.Fatalf("len(SaleHistory) = %d, want 1", len(results.SaleHistory))
		}
		s := results.SaleHistory[0]
		if s.BuyerName != "Buyer Name" {
			t.Errorf("BuyerName = %q, want %q", s.BuyerName, "Buyer Name")
		}
		if want := time.Unix(1713998000, 0).UTC(); !s.SoldAt.Equal(want) {
			t.Errorf("SoldAt = %v, want %v", s.SoldAt, want)
		}
		if s.TotalPrice < s.PricePerUnit {
			t.Errorf("TotalPrice %d < PricePerUnit %d", s.TotalPrice, s.PricePerUnit)
		}
	})

	t.Run("batch of ids yields a map", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(multiListingsBody))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		results, err := c.GetListingsForItems(context.Background(), []int{7, 8}, "Crystal", ListingOptions{})
		if err != nil {
			t.Fatalf("GetListingsForItems failed: %v", err)
		}

		if gotPath != "/Crystal/7,8" {
			t.Errorf("path = %q, want %q", gotPath, "/Crystal/7,8")
		}
		if len(results) != 2 {
			t.Fatalf("len(results) = %d, want 2", len(results))
		}
		if results[7].ItemID != 7 || results[8].ItemID != 8 {
			t.Errorf("item ids = %d/%d, want 7/8", results[7].ItemID, results[8].ItemID)
		}
	})

	t.Run("one-element batch stays a map", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A single-id URL gets the single-object envelope back.
			w.Write([]byte(singleListingsBody))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		results, err := c.GetListingsForItems(context.Background(), []int{7}, "Crystal", ListingOptions{})
		if err != nil {
			t.Fatalf("GetListingsForItems failed: %v", err)
		}

		if len(results) != 1 {
			t.Fatalf("len(results) = %d, want 1", len(results))
		}
		if results[7] == nil {
			t.Fatal("results[7] = nil, want populated")
		}
	})

	t.Run("hq only and entries within become query params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("hq") != "true" {
				t.Errorf("hq param = %q, want %q", r.URL.Query().Get("hq"), "true")
			}
			if r.URL.Query().Get("entriesWithin") != "3600" {
				t.Errorf("entriesWithin param = %q, want %q", r.URL.Query().Get("entriesWithin"), "3600")
			}
			w.Write([]byte(singleListingsBody))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		_, err := c.GetListings(context.Background(), 7, "Crystal", ListingOptions{
			HQOnly:        true,
			EntriesWithin: time.Hour,
		})
		if err != nil {
			t.Fatalf("GetListings failed: %v", err)
		}
	})

	t.Run("unknown scope error carries the token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		_, err := c.GetListings(context.Background(), 7, "Nonexistent", ListingOptions{})

		var ise *InvalidServerError
		if !errors.As(err, &ise) {
			t.Fatalf("error = %v, want *InvalidServerError", err)
		}
		if ise.Scope != "Nonexistent" {
			t.Errorf("Scope = %q, want %q", ise.Scope, "Nonexistent")
		}
	})

	t.Run("unset limits send no params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Query()) != 0 {
				t.Errorf("query = %v, want empty", r.URL.Query())
			}
			w.Write([]byte(singleListingsBody))
		}))
		defer server.Close()

		c := NewClient(WithBaseURL(server.URL))
		if _, err := c.GetListings(context.Background(), 7, "Crystal", ListingOptions{}); err != nil {
			t.Fatalf("GetListings failed: %v", err)
		}
	})
}

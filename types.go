package universalis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flexInt64 decodes a JSON value that may be either a number or a
// numeric string. Older API responses send listing and retainer ids as
// numbers, newer ones as strings.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", s, err)
		}
		*f = flexInt64(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt64(n)
	return nil
}

// worldEntry from GET /worlds
type worldEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// dataCenterEntry from GET /data-centers
type dataCenterEntry struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Worlds []int  `json:"worlds"`
}

// listingEntry is one active listing on the wire.
type listingEntry struct {
	ListingID      flexInt64 `json:"listingID"`
	LastReviewTime int64     `json:"lastReviewTime"` // epoch seconds
	PricePerUnit   int64     `json:"pricePerUnit"`
	Quantity       int       `json:"quantity"`
	Total          int64     `json:"total"`
	Tax            int64     `json:"tax"`
	WorldID        int       `json:"worldID"`
	WorldName      string    `json:"worldName"`
	HQ             bool      `json:"hq"`
	IsCrafted      bool      `json:"isCrafted"`
	OnMannequin    bool      `json:"onMannequin"`
	RetainerID     flexInt64 `json:"retainerID"`
	RetainerName   string    `json:"retainerName"`
	RetainerCity   int       `json:"retainerCity"`
}

// saleEntry is one sale history record on the wire.
type saleEntry struct {
	HQ           bool   `json:"hq"`
	PricePerUnit int64  `json:"pricePerUnit"`
	Quantity     int    `json:"quantity"`
	Total        int64  `json:"total"`
	Timestamp    int64  `json:"timestamp"` // epoch seconds
	OnMannequin  bool   `json:"onMannequin"`
	BuyerName    string `json:"buyerName"`
	WorldID      int    `json:"worldID"`
	WorldName    string `json:"worldName"`
}

// listingsPayload is the per-item result of the listings endpoint.
type listingsPayload struct {
	ItemID         int            `json:"itemID"`
	LastUploadTime int64          `json:"lastUploadTime"` // epoch milliseconds
	Listings       []listingEntry `json:"listings"`
	RecentHistory  []saleEntry    `json:"recentHistory"`
}

// historyPayload is the per-item result of the history endpoint.
type historyPayload struct {
	ItemID         int         `json:"itemID"`
	LastUploadTime int64       `json:"lastUploadTime"` // epoch milliseconds
	Entries        []saleEntry `json:"entries"`
}

// recencyEntry from GET /extra/stats/most-recently-updated
type recencyEntry struct {
	ItemID         int    `json:"itemID"`
	LastUploadTime int64  `json:"lastUploadTime"` // epoch milliseconds
	WorldID        int    `json:"worldID"`
	WorldName      string `json:"worldName"`
}

type recencyResponse struct {
	Items []recencyEntry `json:"items"`
}

// -----------------------------------------------------------------------------
// Aggregated endpoint wire types
// -----------------------------------------------------------------------------

// scopedValue is one statistic at one scope breadth. Timestamps on the
// aggregated endpoint are epoch milliseconds.
type scopedValue struct {
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
	WorldID   *int    `json:"worldId"`
}

// scopedStat groups a statistic's world/dc/region breakdowns.
type scopedStat struct {
	World  *scopedValue `json:"world"`
	DC     *scopedValue `json:"dc"`
	Region *scopedValue `json:"region"`
}

// aggregatedVariant is the per-quality statistics block.
type aggregatedVariant struct {
	MinListing        scopedStat `json:"minListing"`
	RecentPurchase    scopedStat `json:"recentPurchase"`
	AverageSalePrice  scopedStat `json:"averageSalePrice"`
	DailySaleVelocity scopedStat `json:"dailySaleVelocity"`
}

// empty reports whether no breakdown carries any data. The API answers
// with an empty object, rather than null, for some non-HQ-able items.
func (v *aggregatedVariant) empty() bool {
	for _, s := range []scopedStat{v.MinListing, v.RecentPurchase, v.AverageSalePrice, v.DailySaleVelocity} {
		if s.World != nil || s.DC != nil || s.Region != nil {
			return false
		}
	}
	return true
}

// worldUploadEntry from the aggregated endpoint.
type worldUploadEntry struct {
	WorldID   int   `json:"worldId"`
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
}

// aggregatedItem is the per-item result of the aggregated endpoint.
type aggregatedItem struct {
	ItemID           int                `json:"itemId"`
	NQ               aggregatedVariant  `json:"nq"`
	HQ               *aggregatedVariant `json:"hq"`
	WorldUploadTimes []worldUploadEntry `json:"worldUploadTimes"`
}

// aggregatedResponse from GET /aggregated/{scope}/{ids}
type aggregatedResponse struct {
	Results     []aggregatedItem `json:"results"`
	FailedItems []int            `json:"failedItems"`
}

package universalis

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// The listings and history endpoints answer in two incompatible shapes:
// a bare per-item object when one id was requested, or an envelope whose
// "items" field maps item id to per-item objects when several were. An
// earlier protocol variant answered with a bare array. normalizeItems
// flattens all three into a map keyed by item id so nothing downstream
// ever branches on envelope shape.
func normalizeItems[T any](body []byte, itemID func(T) int) (map[int]T, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, invalidJSON(body)
		}
		out := make(map[int]T, len(list))
		for _, item := range list {
			out[itemID(item)] = item
		}
		return out, nil
	}

	var envelope struct {
		Items map[int]T `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Items != nil {
		return envelope.Items, nil
	}

	var single T
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, invalidJSON(body)
	}
	return map[int]T{itemID(single): single}, nil
}

func invalidJSON(body []byte) error {
	return &ServerError{
		StatusCode: http.StatusOK,
		Message:    "invalid json response",
		Body:       body,
	}
}

// -----------------------------------------------------------------------------
// Wire -> domain conversion
// -----------------------------------------------------------------------------

// Listings and history carry epoch seconds; upload times and everything
// on the aggregated endpoint carry epoch milliseconds. The split is a
// fact of the remote API and is preserved per field.

func (p listingsPayload) toResults() *ListingResults {
	active := make([]Listing, 0, len(p.Listings))
	for _, l := range p.Listings {
		active = append(active, l.toListing(p.ItemID))
	}

	history := make([]Sale, 0, len(p.RecentHistory))
	for _, s := range p.RecentHistory {
		history = append(history, s.toSale(p.ItemID))
	}

	return &ListingResults{
		ItemID:      p.ItemID,
		LastUpdated: time.UnixMilli(p.LastUploadTime).UTC(),
		Active:      active,
		SaleHistory: history,
	}
}

func (l listingEntry) toListing(itemID int) Listing {
	return Listing{
		ListingMeta: ListingMeta{
			ItemID:    itemID,
			UpdatedAt: time.Unix(l.LastReviewTime, 0).UTC(),
			WorldID:   l.WorldID,
			WorldName: l.WorldName,
		},
		ListingID:    int64(l.ListingID),
		Quantity:     l.Quantity,
		PricePerUnit: l.PricePerUnit,
		TotalPrice:   l.Total,
		Tax:          l.Tax,
		HQ:           l.HQ,
		IsCrafted:    l.IsCrafted,
		OnMannequin:  l.OnMannequin,
		RetainerID:   int64(l.RetainerID),
		RetainerName: l.RetainerName,
		RetainerCity: l.RetainerCity,
	}
}

func (s saleEntry) toSale(itemID int) Sale {
	return Sale{
		ItemID:       itemID,
		SoldAt:       time.Unix(s.Timestamp, 0).UTC(),
		Quantity:     s.Quantity,
		PricePerUnit: s.PricePerUnit,
		TotalPrice:   s.Total,
		HQ:           s.HQ,
		OnMannequin:  s.OnMannequin,
		BuyerName:    s.BuyerName,
		WorldID:      s.WorldID,
		WorldName:    s.WorldName,
	}
}

func (p historyPayload) toSales() []Sale {
	sales := make([]Sale, 0, len(p.Entries))
	for _, e := range p.Entries {
		sales = append(sales, e.toSale(p.ItemID))
	}
	return sales
}

func (r recencyEntry) toMeta() ListingMeta {
	return ListingMeta{
		ItemID:    r.ItemID,
		UpdatedAt: time.UnixMilli(r.LastUploadTime).UTC(),
		WorldID:   r.WorldID,
		WorldName: r.WorldName,
	}
}

func (a aggregatedItem) toResults() *MarketDataResults {
	out := &MarketDataResults{
		ItemID: a.ItemID,
		NQ:     a.NQ.toMarketData(),
	}

	// An absent, null or empty hq block all mean the item cannot be
	// high-quality. Never defaulted to a zero-valued record.
	if a.HQ != nil && !a.HQ.empty() {
		hq := a.HQ.toMarketData()
		out.HQ = &hq
	}

	for _, w := range a.WorldUploadTimes {
		out.WorldUploadTimes = append(out.WorldUploadTimes, WorldUploadTime{
			WorldID:    w.WorldID,
			UploadedAt: time.UnixMilli(w.Timestamp).UTC(),
		})
	}

	return out
}

func (v aggregatedVariant) toMarketData() MarketData {
	return MarketData{
		MinListing:        v.MinListing.toPriceStat(),
		RecentPurchase:    v.RecentPurchase.toSaleStat(),
		AverageSalePrice:  v.AverageSalePrice.toPriceStat(),
		DailySaleVelocity: v.DailySaleVelocity.toVelocityStat(),
	}
}

func (s scopedStat) toPriceStat() PriceStat {
	out := PriceStat{}
	if s.World != nil {
		out.World = &ScopedPrice{Price: s.World.Price, WorldID: s.World.WorldID}
	}
	if s.DC != nil {
		out.DataCenter = &ScopedPrice{Price: s.DC.Price, WorldID: s.DC.WorldID}
	}
	if s.Region != nil {
		out.Region = ScopedPrice{Price: s.Region.Price, WorldID: s.Region.WorldID}
	}
	return out
}

func (s scopedStat) toSaleStat() SaleStat {
	out := SaleStat{}
	if s.World != nil {
		out.World = &ScopedSale{
			Price:   s.World.Price,
			SoldAt:  time.UnixMilli(s.World.Timestamp).UTC(),
			WorldID: s.World.WorldID,
		}
	}
	if s.DC != nil {
		out.DataCenter = &ScopedSale{
			Price:   s.DC.Price,
			SoldAt:  time.UnixMilli(s.DC.Timestamp).UTC(),
			WorldID: s.DC.WorldID,
		}
	}
	if s.Region != nil {
		out.Region = ScopedSale{
			Price:   s.Region.Price,
			SoldAt:  time.UnixMilli(s.Region.Timestamp).UTC(),
			WorldID: s.Region.WorldID,
		}
	}
	return out
}

func (s scopedStat) toVelocityStat() VelocityStat {
	out := VelocityStat{}
	if s.World != nil {
		out.World = &ScopedVelocity{Quantity: s.World.Quantity}
	}
	if s.DC != nil {
		out.DataCenter = &ScopedVelocity{Quantity: s.DC.Quantity}
	}
	if s.Region != nil {
		out.Region = ScopedVelocity{Quantity: s.Region.Quantity}
	}
	return out
}

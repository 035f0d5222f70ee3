package universalis

import (
	"context"
	"net/url"
	"strconv"
)

// MaxRecentlyUpdatedEntries is the upstream cap on most-recently-updated
// results.
const MaxRecentlyUpdatedEntries = 200

// GetRecentlyUpdated fetches the items whose market data was most
// recently uploaded within scope, newest first. limit is capped at
// MaxRecentlyUpdatedEntries by the remote; zero means the server
// default.
func (c *Client) GetRecentlyUpdated(ctx context.Context, scope string, limit int) ([]ListingMeta, error) {
	query := url.Values{}
	query.Set("world", scope)
	if limit > 0 {
		query.Set("entries", strconv.Itoa(limit))
	}

	var resp recencyResponse
	if err := c.get(ctx, "/extra/stats/most-recently-updated", query, &resp); err != nil {
		return nil, withScope(err, scope)
	}

	metas := make([]ListingMeta, 0, len(resp.Items))
	for _, item := range resp.Items {
		metas = append(metas, item.toMeta())
	}
	return metas, nil
}

// GetTaxRates fetches the market tax rates for a world, keyed by city
// name, as integer percentages.
func (c *Client) GetTaxRates(ctx context.Context, worldName string) (map[string]int, error) {
	query := url.Values{}
	query.Set("world", worldName)

	var rates map[string]int
	if err := c.get(ctx, "/tax-rates", query, &rates); err != nil {
		return nil, withScope(err, worldName)
	}
	return rates, nil
}

// GetMarketableItemIDs fetches the full set of item ids the API tracks
// as tradeable on the market board.
func (c *Client) GetMarketableItemIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := c.get(ctx, "/marketable", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

package universalis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SaleHistoryOptions configures a sale history query. Zero values mean
// "server default": 1800 entries, no price bounds, no time window.
type SaleHistoryOptions struct {
	Limit         int           // Max entries per item (server default: 1800)
	MinSalePrice  int64         // Only sales at or above this unit price
	MaxSalePrice  int64         // Only sales at or below this unit price
	EntriesWithin time.Duration // Only sales within this window
	EntriesUntil  time.Time     // Only sales before this time
}

func (o SaleHistoryOptions) query() url.Values {
	query := url.Values{}
	if o.Limit > 0 {
		query.Set("entriesToReturn", strconv.Itoa(o.Limit))
	}
	if o.MinSalePrice > 0 {
		query.Set("minSalePrice", strconv.FormatInt(o.MinSalePrice, 10))
	}
	if o.MaxSalePrice > 0 {
		query.Set("maxSalePrice", strconv.FormatInt(o.MaxSalePrice, 10))
	}
	if o.EntriesWithin > 0 {
		query.Set("entriesWithin", strconv.Itoa(int(o.EntriesWithin.Seconds())))
	}
	if !o.EntriesUntil.IsZero() {
		query.Set("entriesUntil", strconv.FormatInt(o.EntriesUntil.Unix(), 10))
	}
	return query
}

// GetSaleHistory fetches the sale history for a single item, newest
// first as returned by the server.
func (c *Client) GetSaleHistory(ctx context.Context, itemID int, scope string, opts SaleHistoryOptions) ([]Sale, error) {
	results, err := c.fetchSaleHistory(ctx, []int{itemID}, scope, opts)
	if err != nil {
		return nil, err
	}

	sales, ok := results[itemID]
	if !ok {
		return nil, &ServerError{Message: fmt.Sprintf("response missing item %d", itemID)}
	}
	return sales, nil
}

// GetSaleHistoryForItems fetches sale history for several items in one
// request, keyed by item id. The result stays a map even for a
// one-element input.
func (c *Client) GetSaleHistoryForItems(ctx context.Context, itemIDs []int, scope string, opts SaleHistoryOptions) (map[int][]Sale, error) {
	return c.fetchSaleHistory(ctx, itemIDs, scope, opts)
}

func (c *Client) fetchSaleHistory(ctx context.Context, itemIDs []int, scope string, opts SaleHistoryOptions) (map[int][]Sale, error) {
	body, err := c.doRequest(ctx, "/history/"+url.PathEscape(scope)+"/"+joinIDs(itemIDs), opts.query())
	if err != nil {
		return nil, withScope(err, scope)
	}

	payloads, err := normalizeItems(body, func(p historyPayload) int { return p.ItemID })
	if err != nil {
		return nil, err
	}

	results := make(map[int][]Sale, len(payloads))
	for id, p := range payloads {
		if p.ItemID == 0 {
			p.ItemID = id
		}
		results[id] = p.toSales()
	}
	return results, nil
}

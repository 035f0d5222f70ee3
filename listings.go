package universalis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ListingOptions configures a listings query. Zero values mean "server
// default": all available listings, five history entries, both qualities,
// no time window.
type ListingOptions struct {
	ListingLimit  int           // Max active listings per item
	HistoryLimit  int           // Max sale history entries per item (server default: 5)
	HQOnly        bool          // Only high-quality listings and sales
	EntriesWithin time.Duration // Only history entries within this window
}

func (o ListingOptions) query() url.Values {
	query := url.Values{}
	if o.ListingLimit > 0 {
		query.Set("listings", strconv.Itoa(o.ListingLimit))
	}
	if o.HistoryLimit > 0 {
		query.Set("entries", strconv.Itoa(o.HistoryLimit))
	}
	if o.HQOnly {
		query.Set("hq", "true")
	}
	if o.EntriesWithin > 0 {
		query.Set("entriesWithin", strconv.Itoa(int(o.EntriesWithin.Seconds())))
	}
	return query
}

// GetListings fetches the active listings and recent sale history for a
// single item. scope is a world, datacenter or region name; an unknown
// scope surfaces as an InvalidServerError.
func (c *Client) GetListings(ctx context.Context, itemID int, scope string, opts ListingOptions) (*ListingResults, error) {
	results, err := c.fetchListings(ctx, []int{itemID}, scope, opts)
	if err != nil {
		return nil, err
	}

	r, ok := results[itemID]
	if !ok {
		return nil, &ServerError{Message: fmt.Sprintf("response missing item %d", itemID)}
	}
	return r, nil
}

// GetListingsForItems fetches listings for several items in one request,
// keyed by item id. The result stays a map even for a one-element input.
func (c *Client) GetListingsForItems(ctx context.Context, itemIDs []int, scope string, opts ListingOptions) (map[int]*ListingResults, error) {
	return c.fetchListings(ctx, itemIDs, scope, opts)
}

func (c *Client) fetchListings(ctx context.Context, itemIDs []int, scope string, opts ListingOptions) (map[int]*ListingResults, error) {
	body, err := c.doRequest(ctx, "/"+url.PathEscape(scope)+"/"+joinIDs(itemIDs), opts.query())
	if err != nil {
		return nil, withScope(err, scope)
	}

	payloads, err := normalizeItems(body, func(p listingsPayload) int { return p.ItemID })
	if err != nil {
		return nil, err
	}

	results := make(map[int]*ListingResults, len(payloads))
	for id, p := range payloads {
		if p.ItemID == 0 {
			p.ItemID = id
		}
		results[id] = p.toResults()
	}
	return results, nil
}

// joinIDs renders an id list as the comma-separated path segment the API
// expects.
func joinIDs(ids []int) string {
	if len(ids) == 1 {
		return strconv.Itoa(ids[0])
	}

	buf := make([]byte, 0, len(ids)*6)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}

package universalis

import (
	"context"
	"fmt"
	"net/url"
)

// MaxMarketDataItems is the upstream cap on ids per aggregated query.
// The client does not chunk larger batches; exceeding the cap surfaces
// as an InvalidParametersError from the API.
const MaxMarketDataItems = 100

// GetMarketData fetches the aggregated market statistics for a single
// item: lowest listing, average sale price, most recent sale and sale
// velocity, each broken down by world/datacenter/region breadth and by
// quality variant.
func (c *Client) GetMarketData(ctx context.Context, itemID int, scope string) (*MarketDataResults, error) {
	results, err := c.fetchMarketData(ctx, []int{itemID}, scope)
	if err != nil {
		return nil, err
	}

	r, ok := results[itemID]
	if !ok {
		return nil, &ServerError{Message: fmt.Sprintf("response missing item %d", itemID)}
	}
	return r, nil
}

// GetMarketDataForItems fetches aggregated statistics for several items
// in one request, keyed by item id. Items the API could not resolve are
// absent from the result. The result stays a map even for a one-element
// input.
func (c *Client) GetMarketDataForItems(ctx context.Context, itemIDs []int, scope string) (map[int]*MarketDataResults, error) {
	return c.fetchMarketData(ctx, itemIDs, scope)
}

func (c *Client) fetchMarketData(ctx context.Context, itemIDs []int, scope string) (map[int]*MarketDataResults, error) {
	var resp aggregatedResponse
	if err := c.get(ctx, "/aggregated/"+url.PathEscape(scope)+"/"+joinIDs(itemIDs), nil, &resp); err != nil {
		return nil, withScope(err, scope)
	}

	if len(resp.FailedItems) > 0 {
		c.logger.Debug("aggregated query could not resolve some items",
			"scope", scope,
			"failed", resp.FailedItems,
		)
	}

	results := make(map[int]*MarketDataResults, len(resp.Results))
	for _, item := range resp.Results {
		results[item.ItemID] = item.toResults()
	}
	return results, nil
}

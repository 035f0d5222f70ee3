// Package poller periodically fetches market board listings for a
// configured item set and scope and hands the resulting snapshots to a
// handler.
//
// Items are chunked into batch requests and the chunks fetched
// concurrently up to a configured limit. Each cycle is tagged with a
// run id so downstream storage can group rows captured together.
package poller

// Package universalis provides a typed client for the Universalis REST API,
// a crowdsourced market-board aggregator for Final Fantasy XIV.
//
// Endpoint: https://universalis.app/api/v2
//
// Every query operation issues exactly one GET and is safe for concurrent
// use; the client holds no mutable state beyond its base URL. Operations
// that target items come in scalar and batch flavors (GetListings vs.
// GetListingsForItems) sharing one request each way.
package universalis

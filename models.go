package universalis

import "time"

// -----------------------------------------------------------------------------
// Directory Types
// -----------------------------------------------------------------------------

// World represents a single FFXIV game world.
type World struct {
	ID         int    // Globally unique world id
	Name       string // Display name (e.g. "Balmung")
	DataCenter string // Owning datacenter name; empty when retrieved outside the directory
}

// DataCenter represents an FFXIV datacenter and the worlds it owns.
type DataCenter struct {
	Name   string  // Datacenter name (e.g. "Crystal")
	Region string  // Region (e.g. "North-America", "Japan", "Europe")
	Worlds []World // Member worlds; each carries this datacenter's name as its back-reference
}

// -----------------------------------------------------------------------------
// Market Board Types
// -----------------------------------------------------------------------------

// ListingMeta is the base projection shared by listings and recency
// entries: which item, when, and on which world.
type ListingMeta struct {
	ItemID    int       // Item id
	UpdatedAt time.Time // Last review / upload time
	WorldID   int       // World id; zero for world-scoped queries
	WorldName string    // World name; empty for world-scoped queries
}

// Listing represents one active market board listing.
type Listing struct {
	ListingMeta

	ListingID    int64  // Unique within an item's active set
	Quantity     int    // Stack size
	PricePerUnit int64  // Unit price in gil
	TotalPrice   int64  // Quantity * PricePerUnit plus tax, as reported by the API
	Tax          int64  // Market tax in gil
	HQ           bool   // High quality
	IsCrafted    bool   // Crafted by a player
	OnMannequin  bool   // Listed on a mannequin
	RetainerID   int64  // Selling retainer id
	RetainerName string // Selling retainer name
	RetainerCity int    // City id of the selling retainer
}

// Sale represents one completed sale from an item's history.
type Sale struct {
	ItemID       int       // Item id
	SoldAt       time.Time // Sale time
	Quantity     int       // Stack size
	PricePerUnit int64     // Unit price in gil
	TotalPrice   int64     // Total paid in gil
	HQ           bool      // High quality
	OnMannequin  bool      // Sold from a mannequin
	BuyerName    string    // Buyer character name
	WorldID      int       // World id; zero for world-scoped queries
	WorldName    string    // World name; empty for world-scoped queries
}

// ListingResults holds the market board state for one item: its active
// listings and recent sale history.
type ListingResults struct {
	ItemID      int       // Item id
	LastUpdated time.Time // Last upload time for this item
	Active      []Listing // Active listings, cheapest first as returned by the server
	SaleHistory []Sale    // Recent sales, newest first
}

// -----------------------------------------------------------------------------
// Aggregated Market Data Types
// -----------------------------------------------------------------------------

// ScopedPrice is a price statistic at one scope breadth. WorldID
// identifies the world the value came from for datacenter- and
// region-scoped statistics; it is nil at world scope.
type ScopedPrice struct {
	Price   float64 // Price in gil; fractional for averages
	WorldID *int    // Source world, when the scope spans multiple worlds
}

// ScopedSale is a most-recent-sale statistic at one scope breadth.
type ScopedSale struct {
	Price   float64   // Sale price in gil
	SoldAt  time.Time // Sale time
	WorldID *int      // Source world, when the scope spans multiple worlds
}

// ScopedVelocity is a daily sale velocity statistic at one scope breadth.
type ScopedVelocity struct {
	Quantity float64 // Average units sold per day
}

// PriceStat breaks a price statistic down by scope breadth. Region is
// always populated by the API; World and DataCenter are present only
// when the query was scoped narrowly enough to produce them.
type PriceStat struct {
	World      *ScopedPrice
	DataCenter *ScopedPrice
	Region     ScopedPrice
}

// SaleStat breaks the most recent sale down by scope breadth.
type SaleStat struct {
	World      *ScopedSale
	DataCenter *ScopedSale
	Region     ScopedSale
}

// VelocityStat breaks sale velocity down by scope breadth.
type VelocityStat struct {
	World      *ScopedVelocity
	DataCenter *ScopedVelocity
	Region     ScopedVelocity
}

// MarketData holds the aggregated statistics for one quality variant of
// one item.
type MarketData struct {
	MinListing        PriceStat    // Lowest active listing price
	RecentPurchase    SaleStat     // Most recent sale
	AverageSalePrice  PriceStat    // Average sale price
	DailySaleVelocity VelocityStat // Units sold per day
}

// WorldUploadTime records when a world last uploaded data for an item.
type WorldUploadTime struct {
	WorldID    int
	UploadedAt time.Time
}

// MarketDataResults holds the aggregated market statistics for one item.
// HQ is nil for items that cannot be high-quality.
type MarketDataResults struct {
	ItemID           int
	NQ               MarketData
	HQ               *MarketData
	WorldUploadTimes []WorldUploadTime
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	universalis "github.com/RikuPy/xivuniversalis"
)

func main() {
	scope := flag.String("scope", "Crystal", "world, datacenter or region to query")
	itemID := flag.Int("item", 5, "item id to query")
	flag.Parse()

	client := universalis.NewClient(
		universalis.WithTimeout(30 * time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Test 1: Directory
	fmt.Println("=== Testing GetDataCenters ===")
	datacenters, err := client.GetDataCenters(ctx)
	if err != nil {
		log.Fatalf("GetDataCenters failed: %v", err)
	}
	fmt.Printf("Fetched %d datacenters\n", len(datacenters))
	for i, dc := range datacenters {
		if i >= 3 {
			break
		}
		fmt.Printf("  %s (%s): %d worlds\n", dc.Name, dc.Region, len(dc.Worlds))
	}

	// Test 2: Listings
	fmt.Printf("\n=== Testing GetListings (item %d on %s) ===\n", *itemID, *scope)
	listings, err := client.GetListings(ctx, *itemID, *scope, universalis.ListingOptions{
		ListingLimit: 5,
		HistoryLimit: 5,
	})
	if err != nil {
		log.Fatalf("GetListings failed: %v", err)
	}
	fmt.Printf("Last updated: %s\n", listings.LastUpdated)
	for i, l := range listings.Active {
		fmt.Printf("  %d. %d gil x%d (%s, retainer %s)\n", i+1, l.PricePerUnit, l.Quantity, l.WorldName, l.RetainerName)
	}

	// Test 3: Sale history
	fmt.Printf("\n=== Testing GetSaleHistory ===\n")
	sales, err := client.GetSaleHistory(ctx, *itemID, *scope, universalis.SaleHistoryOptions{Limit: 5})
	if err != nil {
		log.Fatalf("GetSaleHistory failed: %v", err)
	}
	for i, s := range sales {
		fmt.Printf("  %d. %d gil x%d to %s at %s\n", i+1, s.PricePerUnit, s.Quantity, s.BuyerName, s.SoldAt)
	}

	// Test 4: Aggregated market data
	fmt.Printf("\n=== Testing GetMarketData ===\n")
	data, err := client.GetMarketData(ctx, *itemID, *scope)
	if err != nil {
		log.Fatalf("GetMarketData failed: %v", err)
	}
	fmt.Printf("NQ min listing (region): %.0f gil\n", data.NQ.MinListing.Region.Price)
	if data.HQ != nil {
		fmt.Printf("HQ min listing (region): %.0f gil\n", data.HQ.MinListing.Region.Price)
	} else {
		fmt.Println("HQ: item cannot be high-quality")
	}

	// Test 5: Tax rates
	fmt.Printf("\n=== Testing GetTaxRates ===\n")
	worlds, err := client.GetWorlds(ctx)
	if err != nil {
		log.Fatalf("GetWorlds failed: %v", err)
	}
	if len(worlds) > 0 {
		rates, err := client.GetTaxRates(ctx, worlds[0].Name)
		if err != nil {
			log.Fatalf("GetTaxRates failed: %v", err)
		}
		for city, rate := range rates {
			fmt.Printf("  %s: %d%%\n", city, rate)
		}
	}
}

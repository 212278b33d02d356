// Command test-gateway checks connectivity to the Tally endpoint and, when
// reachable, pulls the bill-wise receivables so the mapping can be verified
// before pointing the service at a live company.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/config"
	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/infrastructure/external/tally"
)

func main() {
	fmt.Println("=== Tally Gateway Connectivity Test ===")
	fmt.Println()

	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	client := tally.NewClient(tally.Config{
		BaseURL:        cfg.Tally.BaseURL,
		CompanyName:    cfg.Tally.CompanyName,
		TargetBook:     cfg.Tally.TargetBook,
		CheckTimeout:   cfg.Tally.CheckTimeout,
		RequestTimeout: cfg.Tally.RequestTimeout,
	}, logger)

	fmt.Printf("Endpoint: %s\n", cfg.Tally.BaseURL)
	fmt.Printf("Company:  %s\n", cfg.Tally.CompanyName)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !client.CheckConnection(ctx) {
		fmt.Println("NOT CONNECTED: Tally is unreachable or not answering.")
		fmt.Println("Check that Tally is running and the ODBC/HTTP server is enabled.")
		os.Exit(1)
	}
	fmt.Println("Connected.")

	fmt.Println("Pulling bill-wise receivables...")
	parties, err := client.GetBillAllocations(ctx)
	if err != nil {
		log.Fatalf("Failed to pull allocations: %v", err)
	}

	billCount := 0
	for _, party := range parties {
		billCount += len(party.Bills)
	}
	fmt.Printf("OK: %d parties, %d pending bills\n", len(parties), billCount)

	for i, party := range parties {
		if i >= 5 {
			fmt.Printf("... and %d more parties\n", len(parties)-5)
			break
		}
		fmt.Printf("  %s: %d bills\n", party.PartyName, len(party.Bills))
	}
}

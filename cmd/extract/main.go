// Command extract runs the filing pipeline once for a single company and
// prints the normalized result. Useful for spot checks without the API
// server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"edinet_insight/pkg/core/cache"
	"edinet_insight/pkg/core/edinet"
	"edinet_insight/pkg/core/pipeline"
	"edinet_insight/pkg/core/ratelimit"
	"edinet_insight/pkg/core/taxonomy"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	code := flag.String("code", "", "4-digit securities code")
	name := flag.String("name", "", "company name substring (used when -code is empty)")
	docType := flag.String("type", "annual", "document type: annual or quarterly")
	days := flag.Int("days", 90, "lookback window in days")
	showText := flag.Bool("text", false, "print extracted text sections")
	flag.Parse()

	if *code == "" && *name == "" {
		fmt.Println("usage: extract -code 7203 [-type annual] [-days 90] [-text]")
		os.Exit(2)
	}

	apiKey := os.Getenv("EDINET_API_KEY")
	if apiKey == "" {
		fmt.Println("[FATAL] EDINET_API_KEY environment variable not set")
		os.Exit(1)
	}

	client := edinet.NewClient(edinet.Config{APIKey: apiKey})
	limiter := ratelimit.New(60, time.Minute)
	service := pipeline.NewService(
		edinet.NewLocator(client, limiter, "cli"),
		edinet.NewFetcher(client),
		cache.NewMemory(0, 0),
		cache.NewStore(nil, 0),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := service.LocateAndExtract(ctx,
		edinet.Query{Code: *code, Name: *name},
		edinet.DocTypeCode(*docType), *days)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	meta := result.Metadata
	fmt.Printf("%s (%s)\n", meta.CompanyName, meta.SecurityCode)
	fmt.Printf("  %s  period %s  submitted %s  doc %s\n\n",
		meta.DocumentType, meta.PeriodEnd, meta.SubmitDate, meta.DocID)

	for _, concept := range taxonomy.DisplayOrder {
		fact, ok := result.Financials[concept]
		if !ok {
			continue
		}
		label := taxonomy.DisplayLabels[concept]
		suffix := ""
		if fact.Derived {
			suffix = " (derived)"
		}
		if fact.UnitUnknown {
			suffix = " (unit unknown)"
		}
		fmt.Printf("  %-12s %20.2f%s\n", label, fact.Value, suffix)
	}

	if result.WebsiteURL != "" {
		fmt.Printf("\n  website: %s\n", result.WebsiteURL)
	}

	if len(result.Shareholders) > 0 {
		fmt.Printf("\nMajor shareholders:\n")
		for _, sh := range result.Shareholders {
			fmt.Printf("  %-40s %15d  %6.2f%%\n", sh.Name, sh.Shares, sh.Ratio)
		}
	}

	if *showText {
		for section, text := range result.Text {
			fmt.Printf("\n===== %s =====\n%s\n", section, text)
		}
	} else if len(result.Text) > 0 {
		fmt.Printf("\n%d text sections extracted (rerun with -text to print)\n", len(result.Text))
	}
}

// Evidencia Report Tool generates formatted campaign evidence reports.
//
// This tool connects directly to ClickHouse to query unified marketing data and
// prints a formatted report with portfolio totals, a daily breakdown, and the
// aggregated per-campaign evidencia table.
//
// Usage:
//
//	go run ./tools/evidencia_report -platform=facebook -days=30
//
// The tool outputs a formatted report including:
//   - Overall performance summary (cost, clicks, impressions, CTR, CPC, CPM)
//   - Daily performance breakdown
//   - Per-campaign evidencia table ranked by spend
//   - Automated insights on CTR and spend concentration
//
// Configuration:
//
//	-platform: Required. Marketing platform (facebook, google, tiktok)
//	-days: Optional. Number of days to include in the report (default: 30)
//	-team: Optional. Team name to filter by
//	-accounts: Optional. Comma-separated account IDs to filter by
//	-campaigns: Optional. Comma-separated campaign IDs to filter by
//	-max-rows: Optional. Maximum campaigns in the evidencia table (default: 20)
//	-clickhouse-dsn: Optional. ClickHouse connection string
//
// Environment Variables:
//
//	CLICKHOUSE_DSN: ClickHouse connection string (overridden by -clickhouse-dsn flag)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openmartech/adreport/internal/observability"
	"github.com/openmartech/adreport/internal/report"
	"github.com/openmartech/adreport/internal/warehouse"
)

func main() {
	var (
		platform  = flag.String("platform", "", "Marketing platform (facebook, google, tiktok)")
		days      = flag.Int("days", 30, "Number of days to include in report")
		team      = flag.String("team", "", "Team name to filter by")
		accounts  = flag.String("accounts", "", "Comma-separated account IDs to filter by")
		campaigns = flag.String("campaigns", "", "Comma-separated campaign IDs to filter by")
		maxRows   = flag.Int("max-rows", 20, "Maximum campaigns in the evidencia table")
		dsn       = flag.String("clickhouse-dsn", getEnv("CLICKHOUSE_DSN", "clickhouse://default:@localhost:9000/marketing"), "ClickHouse DSN")
	)
	flag.Parse()

	if *platform == "" {
		fmt.Fprintf(os.Stderr, "Error: platform is required\n")
		flag.Usage()
		os.Exit(1)
	}

	wh, err := warehouse.Init(*dsn, 5, 2, 30*time.Minute, 5*time.Minute, observability.NewNoOpRegistry())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to ClickHouse: %v\n", err)
		os.Exit(1)
	}
	defer wh.Close()

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	q := warehouse.ReportQuery{
		Platform:    *platform,
		Team:        *team,
		AccountIDs:  splitList(*accounts),
		CampaignIDs: splitList(*campaigns),
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
	}

	rawRows, err := wh.FetchRawRows(context.Background(), q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching report rows: %v\n", err)
		os.Exit(1)
	}

	if len(rawRows) == 0 {
		fmt.Fprintf(os.Stderr, "No data for %s in the last %d days\n", *platform, *days)
		os.Exit(1)
	}

	printEvidenciaReport(*platform, *days, rawRows, *maxRows)
}

// printEvidenciaReport outputs a formatted campaign evidence report to stdout:
// overall summary, daily breakdown, the per-campaign evidencia table and
// automated insights.
func printEvidenciaReport(platform string, days int, rawRows []report.Row, maxRows int) {
	summary := report.Summarize(report.CalculateDerived(rawRows))

	fmt.Printf("═══════════════════════════════════════════════════════════════════════════════════\n")
	fmt.Printf("                              CAMPAIGN EVIDENCE REPORT                             \n")
	fmt.Printf("═══════════════════════════════════════════════════════════════════════════════════\n")
	fmt.Printf("Platform: %s\n", platform)
	fmt.Printf("Report Period: %d days (ending %s)\n", days, time.Now().Format("2006-01-02"))
	fmt.Printf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Printf("📊 OVERALL PERFORMANCE\n")
	fmt.Printf("───────────────────────────────────────────────────────────────────────────────────\n")
	fmt.Printf("Total Spend:        $%s\n", summary.TotalCost)
	fmt.Printf("Total Impressions:  %s\n", formatNumber(summary.TotalImpressions))
	fmt.Printf("Total Clicks:       %s\n", formatNumber(summary.TotalClicks))
	if summary.TotalConversions > 0 {
		fmt.Printf("Total Conversions:  %s\n", formatNumber(summary.TotalConversions))
	}
	fmt.Printf("Overall CTR:        %s%%\n", summary.AverageCTR)
	fmt.Printf("Average CPC:        $%s\n", summary.AverageCPC)
	fmt.Printf("Average CPM:        $%s\n", summary.AverageCPM)
	if summary.TotalRevenue != "0.00" {
		fmt.Printf("Revenue:            $%s\n", summary.TotalRevenue)
		fmt.Printf("ROAS:               %s\n", summary.ROAS)
	}
	fmt.Printf("\n")

	daily := report.Aggregate(rawRows, "date")
	if len(daily) > 0 {
		fmt.Printf("📅 DAILY BREAKDOWN\n")
		fmt.Printf("───────────────────────────────────────────────────────────────────────────────────\n")
		fmt.Printf("Date        | Impressions | Clicks |   CTR   |   Spend   \n")
		fmt.Printf("------------|-------------|--------|---------|----------\n")
		for _, dm := range daily {
			fmt.Printf("%-11s | %11s | %6s | %6.2f%% | $%8.2f\n",
				dm.Str("date"),
				formatNumber(report.Count(dm["impressions"])),
				formatNumber(report.Count(dm["clicks"])),
				report.Number(dm["ctr"])*100,
				report.Number(dm["cost"]),
			)
		}
		fmt.Printf("\n")
	}

	table := report.PrepareEvidencia(rawRows, report.EvidenciaConfig{MaxRows: maxRows})
	if len(table) > 0 {
		fmt.Printf("📋 CAMPAIGN EVIDENCIA TABLE\n")
		fmt.Printf("───────────────────────────────────────────────────────────────────────────────────\n")
		fmt.Printf("Campaign                       | Impressions | Clicks |   CTR   |   Spend   \n")
		fmt.Printf("-------------------------------|-------------|--------|---------|----------\n")
		for _, c := range table {
			fmt.Printf("%-30s | %11s | %6s | %6.2f%% | $%8.2f\n",
				truncate(c.Str("campaign_name"), 30),
				formatNumber(report.Count(c["impressions"])),
				formatNumber(report.Count(c["clicks"])),
				report.Number(c["ctr"])*100,
				report.Number(c["cost"]),
			)
		}
		fmt.Printf("\n")
	}

	fmt.Printf("💡 INSIGHTS & RECOMMENDATIONS\n")
	fmt.Printf("───────────────────────────────────────────────────────────────────────────────────\n")

	var ctr float64
	if summary.TotalImpressions > 0 {
		ctr = float64(summary.TotalClicks) / float64(summary.TotalImpressions) * 100
	}
	if ctr == 0 {
		fmt.Printf("⚠️  No clicks recorded - consider reviewing creative strategy\n")
	} else if ctr < 1.0 {
		fmt.Printf("⚠️  Low CTR (%.2f%%) - consider optimizing creatives or targeting\n", ctr)
	} else if ctr > 3.0 {
		fmt.Printf("✅ Excellent CTR (%.2f%%) - campaigns performing well!\n", ctr)
	} else {
		fmt.Printf("✅ Good CTR (%.2f%%) - within normal range\n", ctr)
	}

	if len(table) > 1 {
		totalCost := report.Number(summary.TotalCost)
		if totalCost > 0 {
			top := table[0]
			share := report.Number(top["cost"]) / totalCost * 100
			if share > 50 {
				fmt.Printf("⚠️  %s is consuming %.1f%% of total spend\n",
					top.Str("campaign_name"), share)
			}
		}
	}

	if summary.TotalImpressions > 0 && summary.TotalClicks == 0 {
		fmt.Printf("🔍 Consider A/B testing different creative approaches\n")
	}

	fmt.Printf("═══════════════════════════════════════════════════════════════════════════════════\n")
}

// formatNumber formats large integers with comma separators for improved readability.
// Example: 1234567 becomes "1,234,567"
func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	result := ""
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}
	return result
}

// truncate shortens a string to max characters, appending an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// getEnv returns the value of the environment variable key, or defaultValue
// if it is unset or empty.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma-separated flag value into a slice, dropping empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Command settler runs the settlement engine over a JSON snapshot of the
// shared ledger and prints net balances, raw pairwise debts, the minimized
// settlement plan, spend aggregates, and the verification report.
//
// Usage:
//
//	settler [flags] snapshot.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerlabs/splitledger/internal/engine"
	"github.com/ledgerlabs/splitledger/internal/report"
	"github.com/ledgerlabs/splitledger/internal/snapshot"
	"github.com/ledgerlabs/splitledger/internal/verify"
	"github.com/ledgerlabs/splitledger/pkg/logging"
)

type config struct {
	// Format selects the output: "text" or "json".
	Format string `env:"OUTPUT_FORMAT" envDefault:"text"`

	// MetricsAddr, when set, serves Prometheus metrics on that address
	// for the lifetime of the run (useful when settler runs as a
	// recomputation sidecar rather than a one-shot).
	MetricsAddr string `env:"METRICS_ADDR"`
}

// output is the JSON shape emitted with OUTPUT_FORMAT=json.
type output struct {
	Result  *engine.Result  `json:"result"`
	Summary *report.Summary `json:"summary"`
	Report  *verify.Report  `json:"verification"`
}

func main() {
	logging.Setup()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	format := flag.String("format", cfg.Format, "output format: text or json")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: settler [flags] snapshot.json")
		os.Exit(2)
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}

	snap, err := snapshot.Load(flag.Arg(0))
	if err != nil {
		slog.Error("failed to load snapshot", "path", flag.Arg(0), "error", err)
		os.Exit(1)
	}

	res, err := engine.Compute(snap)
	if err != nil {
		slog.Error("compute failed", "error", err)
		os.Exit(1)
	}

	out := output{
		Result:  res,
		Summary: report.Summarize(snap.People, snap.Expenses),
		Report:  verify.Check(snap, res),
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			slog.Error("failed to encode output", "error", err)
			os.Exit(1)
		}
	default:
		printText(snap, out)
	}

	if !out.Report.Pass {
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("metrics listener starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics listener failed", "error", err)
	}
}

func printText(snap *engine.Snapshot, out output) {
	names := make(map[string]string, len(snap.People))
	for _, p := range snap.People {
		names[p.ID] = p.Name
	}
	display := func(id string) string {
		if name := names[id]; name != "" {
			return name
		}
		return id
	}

	fmt.Println("Balances:")
	for _, b := range out.Result.Balances {
		fmt.Printf("  %-20s %12s\n", display(b.PersonID), b.Balance.StringFixed(2))
	}

	fmt.Println("\nPairwise debts (audit view):")
	for _, tx := range out.Result.Pairwise {
		fmt.Printf("  %s -> %s: %s\n", display(tx.From), display(tx.To), tx.Amount.StringFixed(2))
	}

	fmt.Println("\nSettlement plan:")
	for _, tx := range out.Result.Plan {
		pin := ""
		if tx.Pinned {
			pin = " (pinned)"
		}
		fmt.Printf("  %s pays %s %s%s\n", display(tx.From), display(tx.To), tx.Amount.StringFixed(2), pin)
	}
	for _, o := range out.Result.Outstanding {
		fmt.Printf("  outstanding: %s %s\n", display(o.PersonID), o.Balance.StringFixed(2))
	}

	fmt.Println("\nSpend by category:")
	for _, c := range out.Summary.Categories {
		fmt.Printf("  %-20s %12s (%d expenses)\n", c.Category, c.Total.StringFixed(2), c.ExpenseCount)
	}

	if out.Report.Pass {
		fmt.Println("\nVerification: PASS")
	} else {
		fmt.Printf("\nVerification: FAIL (%d of %d records)\n", out.Report.RecordsFailed, out.Report.RecordsChecked)
		for _, rec := range out.Report.Records {
			for _, v := range rec.Violations {
				fmt.Printf("  expense %s: %s: %s\n", rec.ExpenseID, v.Kind, v.Detail)
			}
		}
		for _, v := range out.Report.Global {
			fmt.Printf("  global: %s: %s\n", v.Kind, v.Detail)
		}
	}
}

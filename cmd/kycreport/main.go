package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kyccli/internal/analytics"
	"kyccli/internal/dataprocessing"
	"kyccli/internal/exporter"
	"kyccli/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input xlsx workbook (required)")
	out := flag.String("out", "", "output csv path (defaults to stdout KPI summary)")
	actions := flag.Bool("actions", false, "export the action-item list instead of the filtered rows")
	division := flag.String("division", "", "filter: exact division match")
	office := flag.String("office", "", "filter: exact office match")
	status := flag.String("status", "", "filter: exact CPC status match")
	scan := flag.String("scan", "", "filter: exact scan status match")
	basis := flag.String("basis", "", "date basis column (defaults to submission date)")
	from := flag.String("from", "", "filter: start date YYYY-MM-DD (inclusive)")
	to := flag.String("to", "", "filter: end date YYYY-MM-DD (inclusive)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "kycreport: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	spec := domain.FilterSpec{
		DateBasis:  *basis,
		Division:   *division,
		Office:     *office,
		Status:     *status,
		ScanStatus: *scan,
	}
	var err error
	if spec.From, err = parseDayFlag(*from); err != nil {
		fatal(logger, "invalid -from", err)
	}
	if spec.To, err = parseDayFlag(*to); err != nil {
		fatal(logger, "invalid -to", err)
	}
	if err := spec.Validate(); err != nil {
		fatal(logger, "invalid filter", err)
	}

	parsed, err := dataprocessing.ParseFile(*in)
	if err != nil {
		fatal(logger, "failed to parse workbook", err)
	}
	logger.Info("workbook parsed",
		slog.String("file", *in),
		slog.Int("rows", len(parsed.Records)),
		slog.Int("header_row", parsed.HeaderRow))

	filtered := analytics.ApplyFilter(parsed.Records, spec)
	aggregator := analytics.NewAggregator(logger, analytics.DefaultAggregatorConfig())

	if *out == "" {
		printSummary(aggregator, filtered, spec)
		return
	}

	f, err := os.Create(*out)
	if err != nil {
		fatal(logger, "failed to create output file", err)
	}
	defer f.Close()

	if *actions {
		err = exporter.WriteActionsCSV(f, aggregator.ActionItems(filtered))
	} else {
		err = exporter.WriteRecordsCSV(f, filtered)
	}
	if err != nil {
		fatal(logger, "failed to write csv", err)
	}
	logger.Info("csv written", slog.String("file", *out), slog.Int("rows", len(filtered)))
}

func printSummary(aggregator *analytics.Aggregator, records []domain.Record, spec domain.FilterSpec) {
	dashboard := aggregator.Dashboard(records, spec)
	k := dashboard.KPIs

	fmt.Printf("Rows:                 %d\n", k.Total)
	fmt.Printf("Submitted to CPC:     %d\n", k.Submitted)
	fmt.Printf("Scan done:            %d\n", k.ScanDone)
	fmt.Printf("Scan pending:         %d\n", k.ScanPending)
	fmt.Printf("Missing consignment:  %d\n", k.MissingConsignment)
	fmt.Printf("Omissions/rejections: %d (%.2f%%)\n", k.Omissions, k.OmissionRate)
	fmt.Printf("Unique sol IDs:       %d\n", k.UniqueSolIDs)
	fmt.Printf("Unique accounts:      %d\n", k.UniqueAccounts)
	fmt.Printf("Missing CIF:          %d\n", k.MissingCIF)
	fmt.Printf("Missing name:         %d\n", k.MissingName)
	fmt.Printf("Divisions:            %d\n", k.DivisionCount)

	a := dashboard.Ageing
	fmt.Printf("Pending scan ageing:  0-2d=%d 3-7d=%d 8-15d=%d >15d=%d (of %d)\n",
		a.Days0to2, a.Days3to7, a.Days8to15, a.DaysOver15, a.Pending)

	if len(k.TopSchemes) > 0 {
		fmt.Println("Top schemes:")
		for _, g := range k.TopSchemes {
			fmt.Printf("  %-40s %d\n", g.Key, g.Count)
		}
	}
}

func parseDayFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"supplymatch/internal"
	"supplymatch/internal/catalog"
	"supplymatch/internal/config"
	"supplymatch/internal/extract"
	"supplymatch/internal/match"
	"supplymatch/internal/pipeline"
	"supplymatch/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	config.SetupLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "invoice file (pdf|xlsx|xls|csv|html)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		doc, err := extract.ParseFile(*input)
		must(err)
		if doc.SupplierName != "" {
			fmt.Printf("supplier: %s\n", doc.SupplierName)
		}
		for i, line := range doc.LineItems {
			fmt.Printf("%3d  %-60s %8s %-3s  %s\n",
				i+1, line.Name, line.Quantity.String(), line.Unit, line.UnitPriceWithTax.String())
		}
		fmt.Printf("parsed %d lines\n", len(doc.LineItems))

	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "invoice file (pdf|xlsx|xls|csv|html)")
		out := fs.String("out", "", "output xlsx report path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}

		doc, err := extract.ParseFile(*input)
		must(err)
		snap, err := loadSnapshot(ctx, db, cfg)
		must(err)
		suppliers := loadSuppliers(ctx, cfg)

		rec := pipeline.NewReconciler(match.NewEngine(nil), db, cfg)
		res := rec.Reconcile(doc, snap, suppliers)

		matched := 0
		for i, line := range res.Lines {
			status := "---"
			if line.Match != nil {
				matched++
				status = fmt.Sprintf("%s (%s, %d)", line.Match.Name, line.Match.Code, line.Match.Score)
			}
			fmt.Printf("%3d  %-50s -> %s\n", i+1, line.Line.Name, status)
		}
		if res.Supplier != nil {
			fmt.Printf("supplier: %s (%s)\n", res.Supplier.Name, res.Supplier.ID)
		}
		fmt.Printf("matched %d of %d lines\n", matched, len(res.Lines))

		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportResultToXLSX(res, *out))
			fmt.Printf("report written to %s\n", *out)
		}

	case "catalog:sync":
		client := catalog.NewClient(cfg)
		items, err := client.FetchCatalog(ctx)
		must(err)
		must(db.UpsertCatalog(items))
		must(db.SetMetadata("catalog_synced_at", time.Now().Format(time.RFC3339)))
		snap := catalog.NewSnapshot(items)
		fmt.Printf("catalog sync complete: %d items, %d searchable\n", len(items), len(snap.Pool))

	case "suppliers":
		client := catalog.NewClient(cfg)
		suppliers, err := client.FetchSuppliers(ctx)
		must(err)
		for _, s := range suppliers {
			fmt.Printf("%s  %s\n", s.ID, s.Name)
		}
		fmt.Printf("%d suppliers\n", len(suppliers))

	case "mappings:list":
		mappings, err := db.ListMappings()
		must(err)
		for key, m := range mappings {
			fmt.Printf("%-50s -> %s (%s)\n", key, m.Name, m.Code)
		}
		fmt.Printf("%d mappings\n", len(mappings))

	case "mappings:remove":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "invoice name to forget")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*name) == "" {
			must(fmt.Errorf("--name is required"))
		}
		must(db.RemoveMapping(*name))
		fmt.Println("mapping removed")

	case "mappings:confirm":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "invoice name")
		product := fs.String("product", "", "catalog product id")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*name) == "" || strings.TrimSpace(*product) == "" {
			must(fmt.Errorf("--name and --product are required"))
		}
		snap, err := loadSnapshot(ctx, db, cfg)
		must(err)
		rec := pipeline.NewReconciler(match.NewEngine(nil), db, cfg)
		must(rec.ConfirmMapping(*name, *product, snap))
		fmt.Println("mapping saved")

	case "supply:create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "invoice file (pdf|xlsx|xls|csv|html)")
		supplierID := fs.String("supplier", "", "counteragent id override")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		if cfg.IikoReadOnly {
			must(fmt.Errorf("IIKO_READ_ONLY is set, refusing to create documents"))
		}

		doc, err := extract.ParseFile(*input)
		must(err)
		client := catalog.NewClient(cfg)
		items, err := client.FetchCatalog(ctx)
		must(err)
		snap := catalog.NewSnapshot(items)
		suppliers := loadSuppliers(ctx, cfg)

		rec := pipeline.NewReconciler(match.NewEngine(nil), db, cfg)
		res := rec.Reconcile(doc, snap, suppliers)

		var supplyItems []catalog.SupplyItem
		confirmed := map[string]internal.LearnedMapping{}
		skipped := 0
		for _, line := range res.Lines {
			if line.Match == nil {
				skipped++
				continue
			}
			supplyItems = append(supplyItems, catalog.SupplyItem{
				ProductID: line.Match.ID,
				Quantity:  line.Line.Quantity,
				Price:     line.Line.UnitPriceWithTax,
			})
			confirmed[line.Line.Name] = internal.LearnedMapping{
				ID: line.Match.ID, Name: line.Match.Name, Code: line.Match.Code,
			}
		}
		if skipped > 0 {
			fmt.Printf("skipping %d unmatched lines\n", skipped)
		}

		sid := *supplierID
		if sid == "" && res.Supplier != nil {
			sid = res.Supplier.ID
		}
		number, err := client.CreateSupply(ctx, snap, sid, supplyItems)
		must(err)
		must(db.SaveMappings(confirmed))
		fmt.Printf("supply document %s created with %d items\n", number, len(supplyItems))

	default:
		usage()
		os.Exit(1)
	}
}

// loadSnapshot serves the cached catalog when one exists and falls back
// to a live fetch, caching the result for the next run.
func loadSnapshot(ctx context.Context, db *storage.DB, cfg config.Config) (*catalog.Snapshot, error) {
	items, err := db.ListCatalog()
	if err == nil && len(items) > 0 {
		return catalog.NewSnapshot(items), nil
	}

	client := catalog.NewClient(cfg)
	items, err = client.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.UpsertCatalog(items); err != nil {
		fmt.Fprintf(os.Stderr, "warning: catalog cache write failed: %v\n", err)
	}
	return catalog.NewSnapshot(items), nil
}

// loadSuppliers is best effort: supplier matching is optional and a
// missing server configuration must not block local reconciliation.
func loadSuppliers(ctx context.Context, cfg config.Config) []internal.Supplier {
	if cfg.IikoServerURL == "" {
		return nil
	}
	suppliers, err := catalog.NewClient(cfg).FetchSuppliers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: supplier fetch failed: %v\n", err)
		return nil
	}
	return suppliers
}

func usage() {
	fmt.Println("usage: supplymatch <command>")
	fmt.Println("commands:")
	fmt.Println("  parse            --input=invoice.pdf")
	fmt.Println("  reconcile        --input=invoice.pdf [--out=./out/report.xlsx]")
	fmt.Println("  catalog:sync")
	fmt.Println("  suppliers")
	fmt.Println("  mappings:list")
	fmt.Println("  mappings:remove  --name=\"Авокадо Хасс\"")
	fmt.Println("  mappings:confirm --name=\"Авокадо Хасс\" --product=<id>")
	fmt.Println("  supply:create    --input=invoice.pdf [--supplier=<id>]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

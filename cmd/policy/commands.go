package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/cache"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/catalog"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/export"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/service"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/storage"
	"github.com/andresuchdata/inventory-bi/backend-go/pkg/logger"
)

type contextKey string

const serviceKey contextKey = "policy-service"

// loadConfig reads the environment and applies flag overrides.
func loadConfig(c *cli.Context) *config.Config {
	cfg := *config.Load()

	if c.IsSet("source") {
		cfg.Catalog.SourceFile = c.String("source")
	}
	if c.IsSet("items") {
		cfg.Catalog.Items = c.Int("items")
	}
	if c.IsSet("seed") {
		cfg.Catalog.Seed = c.Int64("seed")
	}
	if c.IsSet("backend") {
		cfg.Export.Backend = c.String("backend")
	}
	if c.IsSet("dir") {
		cfg.Export.Dir = c.String("dir")
	}
	if c.IsSet("xlsx") {
		cfg.Export.XLSX = c.Bool("xlsx")
	}
	return &cfg
}

// initService builds the policy service for a command and stores it in the
// command context.
func initService(withExport bool) cli.BeforeFunc {
	return func(c *cli.Context) error {
		return setupService(c, withExport)
	}
}

func setupService(c *cli.Context, withExport bool) error {
	cfg := loadConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cat, err := service.LoadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	logger.Log.Debug().Str("version", cat.Version).Int("items", len(cat.Items)).Msg("catalog loaded")

	policyCache, err := cache.NewPolicyCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("policy cache unavailable, continuing without cache")
		policyCache = cache.NewNoopPolicyCache()
	}

	var exporter *export.Exporter
	if withExport {
		store, err := storage.New(c.Context, cfg.Export)
		if err != nil {
			return fmt.Errorf("export storage: %w", err)
		}
		exporter = export.New(store, export.ConfigFrom(cfg.Export))
	}

	svc := service.NewPolicyService(cat, policyCache, exporter, cfg)
	c.Context = context.WithValue(c.Context, serviceKey, svc)
	return nil
}

func serviceFrom(c *cli.Context) *service.PolicyService {
	svc, _ := c.Context.Value(serviceKey).(*service.PolicyService)
	return svc
}

func runGenerate(c *cli.Context) error {
	cfg := loadConfig(c)
	cat := catalog.Generate(cfg.Catalog.Items, cfg.Catalog.Seed)

	out := c.String("out")
	var w io.Writer = c.App.Writer
	if out != "-" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if err := catalog.WriteCSV(w, cat); err != nil {
		return err
	}

	logger.Log.Info().
		Str("version", cat.Version).
		Int("items", len(cat.Items)).
		Str("out", out).
		Msg("catalog generated")
	return nil
}

func resolveRequest(c *cli.Context, svc *service.PolicyService) (domain.PolicyParams, domain.PolicyFilter, error) {
	var in service.ParamsInput
	if c.IsSet("service-level") {
		v := c.Float64("service-level")
		in.ServiceLevel = &v
	}
	if c.IsSet("z") {
		v := c.Float64("z")
		in.Z = &v
	}
	if c.IsSet("holding-multiplier") {
		v := c.Float64("holding-multiplier")
		in.HoldingMultiplier = &v
	}

	params, err := svc.ResolveParams(in)
	if err != nil {
		return domain.PolicyParams{}, domain.PolicyFilter{}, err
	}

	filter := svc.DefaultFilter()
	filter.Categories = c.StringSlice("category")
	filter.Suppliers = c.StringSlice("supplier")

	var custom []domain.RiskFlag
	for _, label := range c.StringSlice("risk") {
		flag, ok := domain.ParseRiskFlag(label)
		if !ok {
			return params, filter, fmt.Errorf("unknown risk %q: %w", label, domain.ErrInvalidParameter)
		}
		custom = append(custom, flag)
	}
	view := domain.RiskView(c.String("risk-view"))
	if view != domain.RiskViewAll {
		filter.Risks = view.Flags(custom)
	}

	if c.IsSet("cover-min") {
		v := c.Float64("cover-min")
		filter.CoverMin = &v
	}
	if c.IsSet("cover-max") {
		v := c.Float64("cover-max")
		filter.CoverMax = &v
	}

	return params, filter, nil
}

func runApply(c *cli.Context) error {
	svc := serviceFrom(c)
	params, filter, err := resolveRequest(c, svc)
	if err != nil {
		return err
	}

	summary, err := svc.Summary(c.Context, params, filter)
	if err != nil {
		return err
	}
	plan, err := svc.Plan(c.Context, params, filter)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Policy: z=%.2f holding_multiplier=%.2f\n\n", params.Z, params.HoldingMultiplier)
	printSummary(w, summary)
	fmt.Fprintln(w)
	return printPlan(w, plan)
}

func printSummary(w io.Writer, s domain.PolicySummary) {
	avgCover := "N/A"
	if s.AvgDaysOfCover.Valid() {
		avgCover = fmt.Sprintf("%.1f", s.AvgDaysOfCover.Float64())
	}

	fmt.Fprintf(w, "Total stock value:        %s\n", s.TotalStockValue.StringFixed(0))
	fmt.Fprintf(w, "Items at risk:            %d\n", s.ItemsAtRisk)
	fmt.Fprintf(w, "Overstock items:          %d\n", s.OverstockItems)
	fmt.Fprintf(w, "Avg days of cover:        %s\n", avgCover)
	fmt.Fprintf(w, "Total recommended qty:    %d\n", s.TotalRecommendedQty)
	fmt.Fprintf(w, "Recommended order budget: %s\n", s.RecommendedBudget.StringFixed(0))
}

func printPlan(w io.Writer, plan []domain.PlanItem) error {
	if len(plan) == 0 {
		fmt.Fprintln(w, "No SKUs currently below ROP under this policy and filters.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tCATEGORY\tSUPPLIER\tSTOCK\tROP\tEOQ\tORDER QTY\tCOVER\tRISK")
	for _, p := range plan {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%s\t%s\n",
			p.SKUID, p.Category, p.Supplier, p.CurrentStock, formatMetric(p.ReorderPoint, 0),
			formatMetric(p.EOQ, 0), p.RecommendedOrderQty, formatMetric(p.DaysOfCover, 1), p.RiskFlag)
	}
	return tw.Flush()
}

func formatMetric(m domain.Metric, decimals int) string {
	if !m.Valid() {
		return "-"
	}
	return fmt.Sprintf("%.*f", decimals, m.Float64())
}

func runExport(c *cli.Context) error {
	svc := serviceFrom(c)
	params, filter, err := resolveRequest(c, svc)
	if err != nil {
		return err
	}

	result, err := svc.Export(c.Context, params, filter)
	if err != nil {
		return err
	}

	for _, f := range result.Files {
		fmt.Fprintf(c.App.Writer, "%s\t%d bytes\n", f.Key, f.Size)
	}
	return nil
}

func runSimulate(c *cli.Context) error {
	svc := serviceFrom(c)
	demand, err := svc.DemandHistory(c.Context, c.String("sku"), c.Int("days"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDEMAND")
	for _, p := range demand {
		fmt.Fprintf(tw, "%s\t%.2f\n", p.Date.Format("2006-01-02"), p.Demand)
	}
	return tw.Flush()
}

func runCacheFlush(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Cache.Enabled {
		logger.Log.Info().Msg("cache disabled, nothing to flush")
		return nil
	}

	policyCache, err := cache.NewPolicyCache(cfg.Cache)
	if err != nil {
		return err
	}
	if err := policyCache.InvalidateAll(c.Context); err != nil {
		return err
	}

	logger.Log.Info().Msg("policy cache flushed")
	return nil
}

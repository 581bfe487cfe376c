package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/cache"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/catalog"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/export"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/policy"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/report"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/simulation"
)

// ErrExportDisabled is returned by Export when no exporter is configured.
var ErrExportDisabled = errors.New("export is not configured")

// ParamsInput carries the optional policy inputs of a request. Nil fields
// fall back to the configured defaults.
type ParamsInput struct {
	ServiceLevel      *float64
	Z                 *float64
	HoldingMultiplier *float64
}

type PolicyService struct {
	catalog   *domain.Catalog
	cache     cache.PolicyCache
	exporter  *export.Exporter
	policy    config.PolicyConfig
	dashboard config.DashboardConfig
	now       func() time.Time
}

func NewPolicyService(cat *domain.Catalog, cacheImpl cache.PolicyCache, exporter *export.Exporter, cfg *config.Config) *PolicyService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPolicyCache()
	}
	return &PolicyService{
		catalog:   cat,
		cache:     cacheImpl,
		exporter:  exporter,
		policy:    cfg.Policy,
		dashboard: cfg.Dashboard,
		now:       time.Now,
	}
}

// LoadCatalog builds the base table: the CSV or XLSX file at SourceFile when
// set, otherwise a generated catalog.
func LoadCatalog(cfg config.CatalogConfig) (*domain.Catalog, error) {
	if cfg.SourceFile == "" {
		return catalog.Generate(cfg.Items, cfg.Seed), nil
	}

	f, err := os.Open(cfg.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", cfg.SourceFile, err)
	}
	defer f.Close()

	load := catalog.LoadCSV
	if strings.EqualFold(filepath.Ext(cfg.SourceFile), ".xlsx") {
		load = catalog.LoadXLSX
	}

	c, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.SourceFile, err)
	}
	return c, nil
}

func (s *PolicyService) Catalog() *domain.Catalog {
	return s.catalog
}

func (s *PolicyService) ServiceLevels() []policy.ServiceLevel {
	return policy.ServiceLevels()
}

// ResolveParams turns request inputs into validated parameters. An explicit
// z takes precedence over a service level. The holding multiplier must lie
// within the configured range.
func (s *PolicyService) ResolveParams(in ParamsInput) (domain.PolicyParams, error) {
	mult := s.policy.HoldingMultiplier
	if in.HoldingMultiplier != nil {
		mult = *in.HoldingMultiplier
	}
	if math.IsNaN(mult) || mult < s.policy.MinHoldingMultiplier || mult > s.policy.MaxHoldingMultiplier {
		return domain.PolicyParams{}, fmt.Errorf("holding multiplier %v outside [%v, %v]: %w",
			mult, s.policy.MinHoldingMultiplier, s.policy.MaxHoldingMultiplier, domain.ErrInvalidParameter)
	}

	if in.Z != nil {
		params := domain.PolicyParams{Z: *in.Z, HoldingMultiplier: mult}
		if err := policy.Validate(params); err != nil {
			return domain.PolicyParams{}, err
		}
		return params, nil
	}

	level := s.policy.ServiceLevel
	if in.ServiceLevel != nil {
		level = *in.ServiceLevel
	}
	return policy.ParamsForServiceLevel(level, mult)
}

// DefaultFilter is the dashboard filter before the user narrows it: every
// category, supplier and risk, within the configured days-of-cover window.
func (s *PolicyService) DefaultFilter() domain.PolicyFilter {
	lo, hi := s.dashboard.CoverMin, s.dashboard.CoverMax
	return domain.PolicyFilter{CoverMin: &lo, CoverMax: &hi}
}

// Evaluate applies the policy to the whole catalog. Results are cached per
// catalog version and parameters; cache failures only degrade to recompute.
func (s *PolicyService) Evaluate(ctx context.Context, params domain.PolicyParams) ([]domain.PolicyRow, error) {
	if rows, ok, err := s.cache.GetRows(ctx, s.catalog.Version, params); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("policy: cache get rows failed")
	}

	rows, err := policy.Apply(s.catalog.Items, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetRows(ctx, s.catalog.Version, params, rows); err != nil {
		log.Warn().Err(err).Msg("policy: cache set rows failed")
	}

	return rows, nil
}

func (s *PolicyService) Items(ctx context.Context, params domain.PolicyParams, filter domain.PolicyFilter) ([]domain.PolicyRow, error) {
	rows, err := s.Evaluate(ctx, params)
	if err != nil {
		return nil, err
	}
	return report.Apply(rows, filter), nil
}

func (s *PolicyService) Summary(ctx context.Context, params domain.PolicyParams, filter domain.PolicyFilter) (domain.PolicySummary, error) {
	rows, err := s.Items(ctx, params, filter)
	if err != nil {
		return domain.PolicySummary{}, err
	}
	return report.Summarize(rows), nil
}

func (s *PolicyService) Dashboard(ctx context.Context, params domain.PolicyParams, filter domain.PolicyFilter) (*domain.PolicyDashboard, error) {
	rows, err := s.Items(ctx, params, filter)
	if err != nil {
		return nil, err
	}
	dashboard := report.Dashboard(params, rows)
	return &dashboard, nil
}

func (s *PolicyService) Plan(ctx context.Context, params domain.PolicyParams, filter domain.PolicyFilter) ([]domain.PlanItem, error) {
	rows, err := s.Items(ctx, params, filter)
	if err != nil {
		return nil, err
	}
	return report.Plan(rows), nil
}

// SKU returns the drill-down of one SKU under the policy, including its
// simulated demand history.
func (s *PolicyService) SKU(ctx context.Context, params domain.PolicyParams, skuID string) (*domain.SKUDrilldown, error) {
	idx := s.catalog.Index(skuID)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", skuID, domain.ErrSKUNotFound)
	}

	rows, err := s.Evaluate(ctx, params)
	if err != nil {
		return nil, err
	}

	return &domain.SKUDrilldown{
		Params: params,
		Row:    rows[idx],
		Demand: s.demand(idx, s.dashboard.DemandDays),
	}, nil
}

// DemandHistory simulates the last days of demand for a SKU. The series is
// seeded by the SKU's position in the catalog so it is stable across calls.
// days <= 0 uses the configured drill-down length.
func (s *PolicyService) DemandHistory(_ context.Context, skuID string, days int) ([]domain.DemandPoint, error) {
	idx := s.catalog.Index(skuID)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", skuID, domain.ErrSKUNotFound)
	}
	return s.demand(idx, days), nil
}

func (s *PolicyService) demand(idx, days int) []domain.DemandPoint {
	if days <= 0 {
		days = s.dashboard.DemandDays
	}
	if days <= 0 {
		days = simulation.DefaultDays
	}
	sku := s.catalog.Items[idx]
	return simulation.DailyDemand(int64(idx), sku.AvgDailySales, sku.DemandStd, days, s.now())
}

// Export writes the full policy table and its filtered view.
func (s *PolicyService) Export(ctx context.Context, params domain.PolicyParams, filter domain.PolicyFilter) (*export.Result, error) {
	if s.exporter == nil {
		return nil, ErrExportDisabled
	}

	rows, err := s.Evaluate(ctx, params)
	if err != nil {
		return nil, err
	}

	return s.exporter.Export(ctx, rows, report.Apply(rows, filter))
}

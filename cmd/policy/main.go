package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("policy command failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "policy",
		Usage: "Generate catalogs and evaluate inventory replenishment policies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
			if lvl := c.String("log-level"); lvl != "" {
				logger.SetLevel(lvl)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Write a synthetic base catalog as CSV",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "items",
						Usage:   "Number of SKUs to generate",
						EnvVars: []string{"CATALOG_ITEMS"},
					},
					&cli.Int64Flag{
						Name:    "seed",
						Usage:   "Random seed",
						EnvVars: []string{"CATALOG_SEED"},
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file, - for stdout",
						Value: "-",
					},
				},
				Action: runGenerate,
			},
			{
				Name:   "apply",
				Usage:  "Evaluate a policy and print the KPI summary and replenishment plan",
				Flags:  append(catalogFlags(), append(policyFlags(), filterFlags()...)...),
				Before: initService(false),
				Action: runApply,
			},
			{
				Name:  "export",
				Usage: "Evaluate a policy and export the full and filtered tables",
				Flags: append(catalogFlags(), append(policyFlags(), append(filterFlags(),
					&cli.StringFlag{
						Name:    "backend",
						Usage:   "Export backend (local, sevalla, drive)",
						EnvVars: []string{"EXPORT_BACKEND"},
					},
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Output directory for the local backend",
						EnvVars: []string{"EXPORT_DIR"},
					},
					&cli.BoolFlag{
						Name:    "xlsx",
						Usage:   "Also write an XLSX workbook",
						EnvVars: []string{"EXPORT_XLSX"},
					},
				)...)...),
				Before: initService(true),
				Action: runExport,
			},
			{
				Name:  "simulate",
				Usage: "Print a SKU's simulated daily demand",
				Flags: append(catalogFlags(),
					&cli.StringFlag{
						Name:     "sku",
						Usage:    "SKU id",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days to simulate",
					},
				),
				Before: initService(false),
				Action: runSimulate,
			},
			{
				Name:  "cache",
				Usage: "Manage the policy cache",
				Subcommands: []*cli.Command{
					{
						Name:   "flush",
						Usage:  "Delete every cached policy evaluation",
						Action: runCacheFlush,
					},
				},
			},
		},
	}
}

func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Usage:   "Base catalog CSV; a catalog is generated when empty",
			EnvVars: []string{"CATALOG_SOURCE_FILE"},
		},
		&cli.IntFlag{
			Name:    "items",
			Usage:   "Number of SKUs to generate",
			EnvVars: []string{"CATALOG_ITEMS"},
		},
		&cli.Int64Flag{
			Name:    "seed",
			Usage:   "Random seed of the generated catalog",
			EnvVars: []string{"CATALOG_SEED"},
		},
	}
}

func policyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "service-level",
			Usage: "Target service level (0.90, 0.95, 0.98, 0.99)",
		},
		&cli.Float64Flag{
			Name:  "z",
			Usage: "Explicit z-score, overrides --service-level",
		},
		&cli.Float64Flag{
			Name:  "holding-multiplier",
			Usage: "Holding cost multiplier",
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "category",
			Usage: "Restrict to categories",
		},
		&cli.StringSliceFlag{
			Name:  "supplier",
			Usage: "Restrict to suppliers",
		},
		&cli.StringFlag{
			Name:  "risk-view",
			Usage: "all, at_risk, overstock or custom",
			Value: "all",
		},
		&cli.StringSliceFlag{
			Name:  "risk",
			Usage: "Risk flags of the custom view",
		},
		&cli.Float64Flag{
			Name:  "cover-min",
			Usage: "Minimum days of cover",
		},
		&cli.Float64Flag{
			Name:  "cover-max",
			Usage: "Maximum days of cover",
		},
	}
}

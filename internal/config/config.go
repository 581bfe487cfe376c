package config

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/policy"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Policy    PolicyConfig
	Dashboard DashboardConfig
	Export    ExportConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// CatalogConfig selects the base table: a generated catalog, or a CSV file
// when SourceFile is set.
type CatalogConfig struct {
	Items      int
	Seed       int64
	SourceFile string
}

type PolicyConfig struct {
	ServiceLevel         float64
	HoldingMultiplier    float64
	MinHoldingMultiplier float64
	MaxHoldingMultiplier float64
}

type DashboardConfig struct {
	CoverMin   float64
	CoverMax   float64
	DemandDays int
}

type ExportConfig struct {
	Backend      string
	Dir          string
	PolicyFile   string
	FilteredFile string
	XLSX         bool
	Sevalla      SevallaConfig
	Drive        DriveConfig
}

type SevallaConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	PolicyTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

// Load reads .env (if present) and the environment once per process.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.AutomaticEnv()
		instance = FromViper(v)
	})

	return instance
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("CATALOG_ITEMS", 150)
	v.SetDefault("CATALOG_SEED", 42)
	v.SetDefault("CATALOG_SOURCE_FILE", "")

	v.SetDefault("POLICY_SERVICE_LEVEL", 0.95)
	v.SetDefault("POLICY_HOLDING_MULTIPLIER", 1.0)
	v.SetDefault("POLICY_HOLDING_MULTIPLIER_MIN", 0.8)
	v.SetDefault("POLICY_HOLDING_MULTIPLIER_MAX", 1.2)

	v.SetDefault("DASHBOARD_COVER_MIN", 0.0)
	v.SetDefault("DASHBOARD_COVER_MAX", 120.0)
	v.SetDefault("DASHBOARD_DEMAND_DAYS", 60)

	v.SetDefault("EXPORT_BACKEND", "local")
	v.SetDefault("EXPORT_DIR", "./data/output")
	v.SetDefault("EXPORT_POLICY_FILE", "inventory_policy_data.csv")
	v.SetDefault("EXPORT_FILTERED_FILE", "inventory_filtered_data.csv")
	v.SetDefault("EXPORT_XLSX", false)
	v.SetDefault("SEVALLA_ENDPOINT", "")
	v.SetDefault("SEVALLA_ACCESS_KEY", "")
	v.SetDefault("SEVALLA_SECRET_KEY", "")
	v.SetDefault("SEVALLA_BUCKET", "")
	v.SetDefault("SEVALLA_REGION", "us-east-1")
	v.SetDefault("SEVALLA_PREFIX", "")
	v.SetDefault("SEVALLA_USE_SSL", true)
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("GOOGLE_DRIVE_FOLDER_ID", "")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_POLICY_TTL_SECONDS", 60)
}

// FromViper builds a Config from the given viper instance after registering
// defaults on it.
func FromViper(v *viper.Viper) *Config {
	SetDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Catalog: CatalogConfig{
			Items:      v.GetInt("CATALOG_ITEMS"),
			Seed:       v.GetInt64("CATALOG_SEED"),
			SourceFile: v.GetString("CATALOG_SOURCE_FILE"),
		},
		Policy: PolicyConfig{
			ServiceLevel:         v.GetFloat64("POLICY_SERVICE_LEVEL"),
			HoldingMultiplier:    v.GetFloat64("POLICY_HOLDING_MULTIPLIER"),
			MinHoldingMultiplier: v.GetFloat64("POLICY_HOLDING_MULTIPLIER_MIN"),
			MaxHoldingMultiplier: v.GetFloat64("POLICY_HOLDING_MULTIPLIER_MAX"),
		},
		Dashboard: DashboardConfig{
			CoverMin:   v.GetFloat64("DASHBOARD_COVER_MIN"),
			CoverMax:   v.GetFloat64("DASHBOARD_COVER_MAX"),
			DemandDays: v.GetInt("DASHBOARD_DEMAND_DAYS"),
		},
		Export: ExportConfig{
			Backend:      v.GetString("EXPORT_BACKEND"),
			Dir:          v.GetString("EXPORT_DIR"),
			PolicyFile:   v.GetString("EXPORT_POLICY_FILE"),
			FilteredFile: v.GetString("EXPORT_FILTERED_FILE"),
			XLSX:         v.GetBool("EXPORT_XLSX"),
			Sevalla: SevallaConfig{
				Endpoint:  v.GetString("SEVALLA_ENDPOINT"),
				AccessKey: v.GetString("SEVALLA_ACCESS_KEY"),
				SecretKey: v.GetString("SEVALLA_SECRET_KEY"),
				Bucket:    v.GetString("SEVALLA_BUCKET"),
				Region:    v.GetString("SEVALLA_REGION"),
				Prefix:    v.GetString("SEVALLA_PREFIX"),
				UseSSL:    v.GetBool("SEVALLA_USE_SSL"),
			},
			Drive: DriveConfig{
				CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				FolderID:        v.GetString("GOOGLE_DRIVE_FOLDER_ID"),
			},
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			PolicyTTLSeconds: v.GetInt("CACHE_POLICY_TTL_SECONDS"),
		},
	}
}

// Validate reports settings that would make every policy evaluation fail.
func (c *Config) Validate() error {
	var errs []error

	p := c.Policy
	if _, err := policy.ZForServiceLevel(p.ServiceLevel); err != nil {
		errs = append(errs, fmt.Errorf("POLICY_SERVICE_LEVEL: %w", err))
	}
	if !(p.MinHoldingMultiplier > 0) {
		errs = append(errs, fmt.Errorf("POLICY_HOLDING_MULTIPLIER_MIN must be > 0, got %v", p.MinHoldingMultiplier))
	}
	if p.MinHoldingMultiplier > p.MaxHoldingMultiplier {
		errs = append(errs, fmt.Errorf("POLICY_HOLDING_MULTIPLIER_MIN (%v) exceeds POLICY_HOLDING_MULTIPLIER_MAX (%v)", p.MinHoldingMultiplier, p.MaxHoldingMultiplier))
	}
	if math.IsNaN(p.HoldingMultiplier) || p.HoldingMultiplier < p.MinHoldingMultiplier || p.HoldingMultiplier > p.MaxHoldingMultiplier {
		errs = append(errs, fmt.Errorf("POLICY_HOLDING_MULTIPLIER %v outside [%v, %v]", p.HoldingMultiplier, p.MinHoldingMultiplier, p.MaxHoldingMultiplier))
	}
	if c.Catalog.SourceFile == "" && c.Catalog.Items <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_ITEMS must be > 0, got %d", c.Catalog.Items))
	}
	if c.Dashboard.CoverMin > c.Dashboard.CoverMax {
		errs = append(errs, fmt.Errorf("DASHBOARD_COVER_MIN (%v) exceeds DASHBOARD_COVER_MAX (%v)", c.Dashboard.CoverMin, c.Dashboard.CoverMax))
	}

	return errors.Join(errs...)
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	DBMaxConns     int32
	StorageDriver  string
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string
	RateLimit      string // ulule/limiter format, e.g. "300-M"
	CORSOrigins    []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	Ledger    LedgerSettings
	Lending   LendingSettings
	Accounts  domain.AccountMapping
	Reporting ReportingSettings
}

// LedgerSettings tunes journal validation.
type LedgerSettings struct {
	// BalanceTolerance is the largest |debit-credit| accepted on an entry.
	BalanceTolerance decimal.Decimal
}

// LendingSettings tunes schedules, the EIR solver and provisioning runs.
type LendingSettings struct {
	ProvisionRates   domain.ProvisionRates
	ProvisionWorkers int
	ProvisionLockTTL time.Duration
	EIRMaxIterations int
	EIRTolerance     float64
}

// ReportingSettings controls cash-flow classification.
type ReportingSettings struct {
	CashAccountCodes  []string
	InvestingPrefixes []string
}

// DefaultLedgerSettings returns the settings used when nothing is configured.
func DefaultLedgerSettings() LedgerSettings {
	return LedgerSettings{BalanceTolerance: decimal.RequireFromString("0.01")}
}

// DefaultLendingSettings returns the settings used when nothing is configured.
func DefaultLendingSettings() LendingSettings {
	return LendingSettings{
		ProvisionRates:   domain.DefaultProvisionRates(),
		ProvisionWorkers: 4,
		ProvisionLockTTL: 30 * time.Minute,
		EIRMaxIterations: 200,
		EIRTolerance:     1e-12,
	}
}

// DefaultReportingSettings returns the settings used when nothing is configured.
func DefaultReportingSettings() ReportingSettings {
	return ReportingSettings{
		CashAccountCodes:  []string{"1-1100", "1-1200"},
		InvestingPrefixes: []string{"1-2"},
	}
}

var rateKeys = map[domain.Collectibility]string{
	domain.Lancar:         "CKPN_RATE_LANCAR",
	domain.DalamPerhatian: "CKPN_RATE_DALAM_PERHATIAN",
	domain.KurangLancar:   "CKPN_RATE_KURANG_LANCAR",
	domain.Diragukan:      "CKPN_RATE_DIRAGUKAN",
	domain.Macet:          "CKPN_RATE_MACET",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	ledgerDefaults := DefaultLedgerSettings()
	lendingDefaults := DefaultLendingSettings()
	reportingDefaults := DefaultReportingSettings()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "coop-backoffice")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger_events")
	viper.SetDefault("LEDGER_BALANCE_TOLERANCE", ledgerDefaults.BalanceTolerance.String())
	viper.SetDefault("PROVISION_WORKERS", lendingDefaults.ProvisionWorkers)
	viper.SetDefault("PROVISION_LOCK_TTL", lendingDefaults.ProvisionLockTTL.String())
	viper.SetDefault("EIR_MAX_ITERATIONS", lendingDefaults.EIRMaxIterations)
	viper.SetDefault("EIR_TOLERANCE", lendingDefaults.EIRTolerance)
	viper.SetDefault("CASH_ACCOUNT_CODES", strings.Join(reportingDefaults.CashAccountCodes, ","))
	viper.SetDefault("INVESTING_ACCOUNT_PREFIXES", strings.Join(reportingDefaults.InvestingPrefixes, ","))
	for role, code := range domain.DefaultAccountMapping() {
		viper.SetDefault("ACCOUNT_"+string(role), code)
	}
	for c, key := range rateKeys {
		rate, _ := lendingDefaults.ProvisionRates.RateFor(c)
		viper.SetDefault(key, rate.String())
	}

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER %q. Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StoragePostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.Ledger = ledgerDefaults
	if tol, err := decimal.NewFromString(viper.GetString("LEDGER_BALANCE_TOLERANCE")); err == nil && !tol.IsNegative() {
		cfg.Ledger.BalanceTolerance = tol
	} else {
		log.Printf("Warning: Invalid value for LEDGER_BALANCE_TOLERANCE. Defaulting to %s.\n", ledgerDefaults.BalanceTolerance)
	}

	cfg.Lending = lendingDefaults
	if workers := viper.GetInt("PROVISION_WORKERS"); workers > 0 {
		cfg.Lending.ProvisionWorkers = workers
	}
	lockTTLStr := viper.GetString("PROVISION_LOCK_TTL")
	if ttl, err := time.ParseDuration(lockTTLStr); err == nil && ttl > 0 {
		cfg.Lending.ProvisionLockTTL = ttl
	} else {
		log.Printf("Warning: Invalid value for PROVISION_LOCK_TTL ('%s'). Defaulting to %s.\n", lockTTLStr, lendingDefaults.ProvisionLockTTL)
	}
	if iters := viper.GetInt("EIR_MAX_ITERATIONS"); iters > 0 {
		cfg.Lending.EIRMaxIterations = iters
	}
	if tol := viper.GetFloat64("EIR_TOLERANCE"); tol > 0 {
		cfg.Lending.EIRTolerance = tol
	}
	rates, err := loadProvisionRates(lendingDefaults.ProvisionRates)
	if err != nil {
		return nil, err
	}
	cfg.Lending.ProvisionRates = rates

	cfg.Accounts = domain.AccountMapping{}
	for _, role := range domain.AllAccountRoles {
		cfg.Accounts[role] = viper.GetString("ACCOUNT_" + string(role))
	}

	cfg.Reporting = ReportingSettings{
		CashAccountCodes:  splitList(viper.GetString("CASH_ACCOUNT_CODES")),
		InvestingPrefixes: splitList(viper.GetString("INVESTING_ACCOUNT_PREFIXES")),
	}

	return cfg, nil
}

func loadProvisionRates(defaults domain.ProvisionRates) (domain.ProvisionRates, error) {
	rates := defaults
	targets := map[domain.Collectibility]*decimal.Decimal{
		domain.Lancar:         &rates.Lancar,
		domain.DalamPerhatian: &rates.DalamPerhatian,
		domain.KurangLancar:   &rates.KurangLancar,
		domain.Diragukan:      &rates.Diragukan,
		domain.Macet:          &rates.Macet,
	}
	for c, key := range rateKeys {
		raw := viper.GetString(key)
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			log.Printf("Warning: Invalid value for %s ('%s'). Keeping default.\n", key, raw)
			continue
		}
		*targets[c] = rate
	}
	if err := rates.Validate(); err != nil {
		return defaults, err
	}
	return rates, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/SscSPs/coop_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.True(t, cfg.Ledger.BalanceTolerance.Equal(decimal.RequireFromString("0.01")))
	assert.Equal(t, 200, cfg.Lending.EIRMaxIterations)
	assert.Equal(t, domain.DefaultAccountMapping(), cfg.Accounts)
	assert.Equal(t, []string{"1-1100", "1-1200"}, cfg.Reporting.CashAccountCodes)
	assert.Equal(t, domain.DefaultProvisionRates(), cfg.Lending.ProvisionRates)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CKPN_RATE_DIRAGUKAN", "0.6")
	t.Setenv("ACCOUNT_CASH", "1-1200")
	t.Setenv("PROVISION_WORKERS", "9")
	t.Setenv("PROVISION_LOCK_TTL", "5m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Lending.ProvisionRates.Diragukan.Equal(decimal.RequireFromString("0.6")))
	assert.Equal(t, "1-1200", cfg.Accounts[domain.RoleCash])
	assert.Equal(t, 9, cfg.Lending.ProvisionWorkers)
	assert.Equal(t, 5*time.Minute, cfg.Lending.ProvisionLockTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfig_RejectsRateAboveOne(t *testing.T) {
	t.Setenv("CKPN_RATE_MACET", "1.5")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Empty(t, splitList(""))
}

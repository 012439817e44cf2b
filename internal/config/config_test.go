package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, LedgerMutex, cfg.Ledger.Type)
	assert.Equal(t, "wal.log", cfg.Ledger.WALPath)
	assert.Equal(t, 1000, cfg.Ledger.QueueSize)
	assert.Equal(t, 100, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, []string{"Checking", "Savings"}, cfg.AccountTypes)
	assert.False(t, cfg.NeedsDB())
}

func TestParseFull(t *testing.T) {
	data := []byte(`
server:
  addr: ":6000"
  shutdown_timeout: 3s
ledger:
  type: mysql
mysql:
  host: localhost
  user: root
  password: pw
  db_name: accounts
  conn_max_lifetime: 5m
  log_level: warn
log:
  mode: prod
  level: debug
account_types: [Checking, Savings, Payroll]
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, LedgerMySQL, cfg.Ledger.Type)
	assert.True(t, cfg.NeedsDB())
	assert.Equal(t, 3306, cfg.MySQL.Port)
	assert.Equal(t, 5*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, "accounts", cfg.MySQL.DBName)
	assert.Equal(t, []string{"Checking", "Savings", "Payroll"}, cfg.AccountTypes)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown ledger":      "ledger: {type: redis}",
		"unknown log mode":    "log: {mode: verbose}",
		"mysql missing host":  "ledger: {type: mysql}\nmysql: {user: root, db_name: x}",
		"load_from_db no db":  "ledger: {type: lmax, load_from_db: true}",
		"empty account type":  "account_types: [Checking, \"\"]",
		"duplicate type":      "account_types: [Checking, Checking]",
		"negative queue size": "ledger: {queue_size: -1}",
		"not yaml":            "server: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  type: lmax\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LedgerLMAX, cfg.Ledger.Type)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

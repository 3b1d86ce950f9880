package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithPathDefaults(t *testing.T) {
	path := writeEnvFile(t, "ENGINE_OWNER_ADDRESS=0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266\n")

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, "nftickets", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Engine.Store)
	// supply opens at one and must be raised by the owner
	assert.Equal(t, int64(1), cfg.Engine.MaxSupply)
	assert.Equal(t, int32(18), cfg.Engine.Decimals)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadWithPathOverrides(t *testing.T) {
	path := writeEnvFile(t, `
ENGINE_OWNER_ADDRESS=0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266
ENGINE_STORE=postgres
ENGINE_MAX_SUPPLY=500
ENGINE_DECIMALS=2
SERVER_PORT=9090
DATABASE_DBNAME=tickets
KAFKA_BROKERS=broker1:9092,broker2:9092
`)

	cfg, err := LoadWithPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Engine.Store)
	assert.Equal(t, int64(500), cfg.Engine.MaxSupply)
	assert.Equal(t, int32(2), cfg.Engine.Decimals)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "tickets", cfg.Database.DBName)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	path := writeEnvFile(t, "ENGINE_STORE=cassandra\n")
	_, err := LoadWithPath(path)
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "secret",
		DBName: "nftickets", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=app password=secret dbname=nftickets sslmode=disable",
		d.DSN())
}

func TestRedisAddr(t *testing.T) {
	r := &RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.Addr())
}

package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("WT_TEST_SET", "value")
	t.Setenv("WT_TEST_EMPTY", "")

	assert.Equal(t, "value", getEnvOrDefault("WT_TEST_SET", "default"))
	assert.Equal(t, "default", getEnvOrDefault("WT_TEST_EMPTY", "default"))
	assert.Equal(t, "default", getEnvOrDefault("WT_TEST_MISSING", "default"))
}

func TestParseFlags(t *testing.T) {
	oldArgs, oldFlags := os.Args, flag.CommandLine
	defer func() { os.Args, flag.CommandLine = oldArgs, oldFlags }()

	flag.CommandLine = flag.NewFlagSet("worktravel", flag.ContinueOnError)
	os.Args = []string{"worktravel", "-a", ":9090", "-b", "sqlite", "-q", ":memory:", "-c", "8"}

	t.Setenv("JWT_SIGNING_KEY", "from-env")

	o := NewOptions()
	o.ParseFlags()

	assert.Equal(t, ":9090", o.RunAddr())
	assert.Equal(t, BackendSQLite, o.StorageBackend())
	assert.Equal(t, ":memory:", o.SQLitePath())
	assert.Equal(t, "8", o.Concurrency())
	assert.Equal(t, "from-env", o.JWTSigningKey())
	assert.Equal(t, "worktravel", o.MongoDatabase())
}

func TestStorageBackendFallback(t *testing.T) {
	assert.Equal(t, BackendMemory, (&Options{}).StorageBackend())
	assert.Equal(t, BackendPostgres, (&Options{flagDataBaseDSN: "postgres://x"}).StorageBackend())
	assert.Equal(t, BackendMongo, (&Options{flagStorageBackend: "mongo", flagDataBaseDSN: "postgres://x"}).StorageBackend())
}

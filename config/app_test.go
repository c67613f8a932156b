package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"SHOPIFY_API_VERSION", "SHOPIFY_PAGE_SIZE", "SHOPIFY_HTTP_TIMEOUT", "LOG_LEVEL", "DEBUG", "EXPORT_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.MediaLimit)
	assert.Equal(t, 20, cfg.VariantLimit)
	assert.Equal(t, 5, cfg.InventoryLevelLimit)
	assert.Equal(t, 20, cfg.MetafieldLimit)
	assert.Equal(t, DefaultExportSchedule, cfg.ExportSchedule)
	assert.Empty(t, cfg.Warnings)
}

func TestFromEnvOverridesAndInvalidValues(t *testing.T) {
	t.Setenv("SHOPIFY_API_VERSION", "2024-10")
	t.Setenv("SHOPIFY_PAGE_SIZE", "many")
	t.Setenv("SHOPIFY_HTTP_TIMEOUT", "45")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "")

	cfg := FromEnv()
	assert.Equal(t, "2024-10", cfg.APIVersion)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "SHOPIFY_PAGE_SIZE")
}

func TestHTTPTimeoutAcceptsDurations(t *testing.T) {
	t.Setenv("SHOPIFY_HTTP_TIMEOUT", "1m30s")
	assert.Equal(t, 90*time.Second, FromEnv().HTTPTimeout)
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		store, version, want string
	}{
		{"my-store", "2025-07", "https://my-store.myshopify.com/admin/api/2025-07/graphql.json"},
		{"my-store.myshopify.com", "2024-10", "https://my-store.myshopify.com/admin/api/2024-10/graphql.json"},
		{"https://my-store.myshopify.com/", "", "https://my-store.myshopify.com/admin/api/" + DefaultAPIVersion + "/graphql.json"},
	}
	for _, tt := range tests {
		if got := GraphQLEndpoint(tt.store, tt.version); got != tt.want {
			t.Errorf("GraphQLEndpoint(%q, %q) = %q, want %q", tt.store, tt.version, got, tt.want)
		}
	}

	assert.Equal(t, "https://my-store.myshopify.com/admin/products/42", AdminProductURL("my-store", "42"))
}

func TestNewDBSQLiteMemory(t *testing.T) {
	db, err := NewDB(":memory:", "off", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("loud", "console")
	assert.Error(t, err)

	log, err := NewLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
}

func TestOptionalClientsStayNil(t *testing.T) {
	assert.Nil(t, NewRedis("", "", 0))
	es, err := NewSearchClient("")
	require.NoError(t, err)
	assert.Nil(t, es)
}

func TestMySQLDSNOptions(t *testing.T) {
	assert.Equal(t, "u:p@tcp(db:3306)/shop?parseTime=true&charset=utf8mb4&loc=UTC", mysqlDSN("u:p@tcp(db:3306)/shop"))
	assert.Equal(t, "u:p@tcp(db)/shop?tls=true&parseTime=true&charset=utf8mb4&loc=UTC", mysqlDSN("u:p@tcp(db)/shop?tls=true"))
	assert.Equal(t, "x?parseTime=false", mysqlDSN("x?parseTime=false"))
}

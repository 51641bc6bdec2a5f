package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shopfront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "shopfront", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Redis.Enabled())
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.True(t, cfg.Shop.FreeShippingThreshold.Equal(decimal.NewFromInt(50)))
	assert.True(t, cfg.Shop.FlatShippingFee.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "ORD", cfg.Shop.OrderNumberPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Checkout.IdempotencyTTL)
	assert.Equal(t, 5, cfg.Admin.MaxLoginAttempts)
	assert.True(t, cfg.HTTP.RateLimitEnabled)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "shopfront-backend", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SHOP_APP_PORT", "9000")
	t.Setenv("SHOP_DATABASE_HOST", "db.internal")
	t.Setenv("SHOP_DATABASE_PORT", "5433")
	t.Setenv("SHOP_REDIS_HOST", "cache.internal")
	t.Setenv("SHOP_SHOP_FLAT_SHIPPING_FEE", "7.95")
	t.Setenv("SHOP_SHOP_FREE_SHIPPING_THRESHOLD", "0")
	t.Setenv("SHOP_HTTP_RATE_LIMIT_ENABLED", "false")
	t.Setenv("SHOP_TELEMETRY_SAMPLING_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, "7.95", cfg.Shop.FlatShippingFee.String())
	assert.True(t, cfg.Shop.FreeShippingThreshold.IsZero())
	assert.False(t, cfg.HTTP.RateLimitEnabled)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns exceed open conns",
			env:     map[string]string{"SHOP_DATABASE_MAX_OPEN_CONNS": "10", "SHOP_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative shipping fee",
			env:     map[string]string{"SHOP_SHOP_FLAT_SHIPPING_FEE": "-1"},
			wantErr: "flat_shipping_fee cannot be negative",
		},
		{
			name:    "malformed decimal",
			env:     map[string]string{"SHOP_SHOP_FLAT_SHIPPING_FEE": "five"},
			wantErr: "invalid decimal",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"SHOP_LOG_LEVEL": "verbose"},
			wantErr: "log.level",
		},
		{
			name:    "negative database port",
			env:     map[string]string{"SHOP_DATABASE_PORT": "-5"},
			wantErr: "database.port must be positive",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"SHOP_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
		{
			name:    "production without jwt secret",
			env:     map[string]string{"SHOP_APP_ENV": "production", "SHOP_DATABASE_PASSWORD": "pw"},
			wantErr: "jwt.secret is required",
		},
		{
			name: "production with short jwt secret",
			env: map[string]string{
				"SHOP_APP_ENV":           "production",
				"SHOP_JWT_SECRET":        "short",
				"SHOP_DATABASE_PASSWORD": "pw",
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "production with wildcard cors",
			env: map[string]string{
				"SHOP_APP_ENV":                "production",
				"SHOP_JWT_SECRET":             "0123456789abcdef0123456789abcdef",
				"SHOP_DATABASE_PASSWORD":      "pw",
				"SHOP_HTTP_CORS_ALLOW_ORIGINS": "*",
			},
			wantErr: "cors_allow_origins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromViper_ConfigValues(t *testing.T) {
	v := viper.New()
	v.Set("shop.currency", "EUR")
	v.Set("shop.free_shipping_threshold", "75.00")
	v.Set("admin.bootstrap_email", "owner@shop.example")
	v.Set("telemetry.profiling.profile_types", []string{"cpu", "goroutines"})

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Shop.Currency)
	assert.Equal(t, "75", cfg.Shop.FreeShippingThreshold.String())
	assert.Equal(t, "owner@shop.example", cfg.Admin.BootstrapEmail)
	assert.Equal(t, []string{"cpu", "goroutines"}, cfg.Telemetry.Profiling.ProfileTypes)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "p@ss word", DBName: "shopfront", SSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss%20word@db:5432/shopfront?sslmode=disable", d.DSN())
}

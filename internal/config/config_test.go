package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseEnv is a minimal valid dev environment; cases override single keys.
var baseEnv = map[string]string{
	"APP_ENV":         EnvDev,
	"UPTRACE_ENABLED": "false",
}

func loadWith(t *testing.T, overrides map[string]string) (Config, error) {
	t.Helper()
	for key, value := range baseEnv {
		t.Setenv(key, value)
	}
	for key, value := range overrides {
		t.Setenv(key, value)
	}
	return Load()
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown app env":             {"APP_ENV": "invalid"},
		"uptrace without dsn":         {"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""},
		"pyroscope without server":    {"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""},
		"binary parameters not bool":  {"DB_BINARY_PARAMETERS": "not-bool"},
		"cache ttl not duration":      {"CACHE_TTL": "bad"},
		"qstash missing secrets":      {"QSTASH_ENABLED": "true", "QSTASH_TOKEN": "", "QSTASH_TARGET_BASE_URL": "", "INTERNAL_JOB_TOKEN": ""},
		"unknown storage driver":      {"STORAGE_DRIVER": "sqlite"},
		"jwt mode without secret":     {"AUTH_MODE": AuthModeJWT, "JWT_SECRET": ""},
		"negative tip rate":           {"TIP_RATE_PER_SECOND": "-1"},
		"zero tip burst":              {"TIP_RATE_BURST": "0"},
		"zero leaderboard workers":    {"LEADERBOARD_MAX_WORKERS": "0"},
		"anubis failure count zero":   {"ANUBIS_CIRCUIT_FAILURE_COUNT": "0"},
		"read timeout not a duration": {"APP_READ_TIMEOUT": "soon"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadWith(t, env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"SWAGGER_ENABLED":       "",
		"CORS_ALLOWED_ORIGINS":  "",
		"DB_BINARY_PARAMETERS":  "",
		"CACHE_ENABLED":         "",
		"CACHE_TTL":             "",
		"QSTASH_ENABLED":        "",
		"STORAGE_DRIVER":        "",
		"AUTH_MODE":             "",
		"TIPS_REQUIRE_TIPPABLE": "",
		"TIP_RATE_PER_SECOND":   "",
		"TIP_RATE_BURST":        "",
	})
	require.NoError(t, err)

	assert.True(t, cfg.SwaggerEnabled, "dev enables swagger")
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.DBBinaryParameters)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.QStashEnabled)
	assert.Equal(t, 10*time.Second, cfg.QStashTimeout)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, AuthModeIntrospect, cfg.AuthMode)
	assert.Equal(t, 30*time.Second, cfg.AnubisCacheTTL)
	assert.True(t, cfg.TipsRequireTippable)
	assert.Equal(t, 2.0, cfg.TipRatePerSecond)
	assert.Equal(t, 5, cfg.TipRateBurst)
}

func TestLoad_ProdDisablesSwagger(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{"APP_ENV": EnvProd, "SWAGGER_ENABLED": ""})
	require.NoError(t, err)
	assert.False(t, cfg.SwaggerEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "pprof addr falls back when blank",
			env:  map[string]string{"PPROF_ENABLED": "true", "PPROF_ADDR": "  "},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ":6060", cfg.PprofAddr)
			},
		},
		{
			name: "pyroscope app name follows service name",
			env: map[string]string{
				"APP_SERVICE_NAME":         "race-tipping-api-test",
				"PYROSCOPE_ENABLED":        "true",
				"PYROSCOPE_SERVER_ADDRESS": "http://localhost:4040",
				"PYROSCOPE_APP_NAME":       "",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "race-tipping-api-test", cfg.PyroscopeAppName)
			},
		},
		{
			name: "cors origins are trimmed",
			env:  map[string]string{"CORS_ALLOWED_ORIGINS": " https://a.example.com, http://localhost:5173 ,"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, []string{"https://a.example.com", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
			},
		},
		{
			name: "qstash with every secret",
			env: map[string]string{
				"QSTASH_ENABLED":         "true",
				"QSTASH_TOKEN":           "qstash-token",
				"QSTASH_TARGET_BASE_URL": "https://race-tipping.fly.dev",
				"INTERNAL_JOB_TOKEN":     " internal-job-token ",
				"QSTASH_RETRIES":         "2",
			},
			check: func(t *testing.T, cfg Config) {
				assert.True(t, cfg.QStashEnabled)
				assert.Equal(t, 2, cfg.QStashRetries)
				assert.Equal(t, "internal-job-token", cfg.InternalJobToken)
			},
		},
		{
			name: "storage driver is case insensitive",
			env:  map[string]string{"STORAGE_DRIVER": " Postgres "},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, StoragePostgres, cfg.StorageDriver)
			},
		},
		{
			name: "jwt mode with issuer",
			env:  map[string]string{"AUTH_MODE": "JWT", "JWT_SECRET": "s3cret", "JWT_ISSUER": " race-tipping "},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, AuthModeJWT, cfg.AuthMode)
				assert.Equal(t, "race-tipping", cfg.JWTIssuer)
			},
		},
		{
			name: "tippable gate can be disabled",
			env:  map[string]string{"TIPS_REQUIRE_TIPPABLE": "false"},
			check: func(t *testing.T, cfg Config) {
				assert.False(t, cfg.TipsRequireTippable)
			},
		},
		{
			name: "log level is case insensitive",
			env:  map[string]string{"APP_LOG_LEVEL": "WARN"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "warn", cfg.LogLevel.String())
			},
		},
		{
			name: "binary parameters can be turned off",
			env:  map[string]string{"DB_BINARY_PARAMETERS": "false"},
			check: func(t *testing.T, cfg Config) {
				assert.False(t, cfg.DBBinaryParameters)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := loadWith(t, tc.env)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

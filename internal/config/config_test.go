package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pasta-science/marketd/internal/config"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("MARKETD_DATADIR", datadir)
	t.Setenv("MARKETD_AUTH_PROVIDER_API_KEY", "apikey")
	t.Setenv("MARKETD_ADMIN_ADDRESSES", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266, 0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	require.NoError(t, config.InitConfig())

	require.Equal(t, 8080, config.GetInt(config.HTTPListeningPortKey))
	require.Equal(t, "auth.app", config.GetString(config.AuthDomainKey))
	require.Equal(t, "Pasta Science Auth", config.GetString(config.AuthStatementKey))
	require.Equal(t, "http://localhost:3000", config.GetString(config.AuthURIKey))
	require.Equal(t, time.Minute, config.GetSeconds(config.AuthTimeoutKey))
	require.Len(t, config.GetStringSlice(config.AdminAddressesKey), 2)
	require.NotEmpty(t, config.GetString(config.SessionSecretKey))
	require.False(t, config.IsSet(config.SessionSecretKey))

	_, err := os.Stat(filepath.Join(datadir, config.DbLocation))
	require.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing api key",
			env:  map[string]string{},
		},
		{
			name: "unsupported db",
			env: map[string]string{
				"MARKETD_AUTH_PROVIDER_API_KEY": "apikey",
				"MARKETD_DB_TYPE":               "postgres",
			},
		},
		{
			name: "invalid admin",
			env: map[string]string{
				"MARKETD_AUTH_PROVIDER_API_KEY": "apikey",
				"MARKETD_ADMIN_ADDRESSES":       "admin",
			},
		},
		{
			name: "invalid auth timeout",
			env: map[string]string{
				"MARKETD_AUTH_PROVIDER_API_KEY": "apikey",
				"MARKETD_AUTH_TIMEOUT":          "0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MARKETD_DATADIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Error(t, config.InitConfig())
		})
	}
}

package config_test

import (
	"testing"

	"github.com/jrsteele09/storefront-server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	proxies := config.ParseTrustedProxies(" 10.0.0.0/8, 192.0.2.1 ,not-an-ip,, ::1")
	require.Len(t, proxies, 3)

	require.True(t, proxies.Contains("10.20.30.40"))
	require.True(t, proxies.Contains("192.0.2.1"))
	require.True(t, proxies.Contains("::ffff:192.0.2.1"))
	require.True(t, proxies.Contains("::1"))

	require.False(t, proxies.Contains("192.0.2.2"))
	require.False(t, proxies.Contains("11.0.0.1"))
	require.False(t, proxies.Contains("garbage"))
}

func TestGetTrustedProxies_EmptyByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	require.Empty(t, config.RateLimit{}.GetTrustedProxies())
	require.False(t, config.RateLimit{}.GetTrustedProxies().Contains("127.0.0.1"))
}

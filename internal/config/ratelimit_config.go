package config

import (
	"net/netip"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const trustedProxiesEnvVar = "TRUSTED_PROXIES"

type RateLimitConfig interface {
	GetRedisAddr() string
	GetRedisDB() int
	GetLoginRateLimit() int
	GetLoginRateWindow() time.Duration
	GetTrustedProxies() TrustedProxies
}

type RateLimit struct{}

var _ RateLimitConfig = RateLimit{}

// GetRedisAddr is empty unless REDIS_ADDR is set; limiters then fall back to
// process memory.
func (RateLimit) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (RateLimit) GetRedisDB() int {
	return GetIntEnv("REDIS_DB", 0)
}

func (RateLimit) GetLoginRateLimit() int {
	return GetIntEnv("LOGIN_RATE_LIMIT", 10)
}

func (RateLimit) GetLoginRateWindow() time.Duration {
	return GetDurationEnv("LOGIN_RATE_WINDOW", 15*time.Minute)
}

// GetTrustedProxies lists the reverse proxies (IPs or CIDRs, comma separated)
// whose X-Forwarded-For header is believed. Empty means clients are keyed by
// the connection address alone.
func (RateLimit) GetTrustedProxies() TrustedProxies {
	return ParseTrustedProxies(GetEnv(trustedProxiesEnvVar, ""))
}

type TrustedProxies []netip.Prefix

// ParseTrustedProxies skips entries that are neither an IP nor a CIDR.
func ParseTrustedProxies(list string) TrustedProxies {
	var proxies TrustedProxies
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			log.Warn().Str("entry", entry).Msg("ignoring invalid " + trustedProxiesEnvVar + " entry")
			continue
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies
}

// Contains reports whether ip belongs to a trusted proxy.
func (t TrustedProxies) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range t {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

package config

import (
	"sort"
	"strings"
)

const allowedOriginsEnvVar = "ALLOWED_ORIGINS"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	sort.Strings(origins)
	return strings.Join(origins, ", ")
}

// ParseAllowedOrigins builds the origin set from a comma separated list.
func ParseAllowedOrigins(list string) AllowedOrigins {
	origins := AllowedOrigins{}
	for _, origin := range strings.Split(list, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins[origin] = nullValue{}
		}
	}
	return origins
}

var devOrigins = "http://localhost:5173,http://localhost:5174,http://localhost:3000"

// GetAllowedOrigins is default-deny: outside DEV only the origins listed in
// ALLOWED_ORIGINS are accepted, and "*" has to be configured explicitly.
func (Cors) GetAllowedOrigins() AllowedOrigins {
	if list := GetEnv(allowedOriginsEnvVar, ""); list != "" {
		return ParseAllowedOrigins(list)
	}
	if (EnvVars{}).GetEnv() == EnvDevelopment {
		return ParseAllowedOrigins(devOrigins)
	}
	return AllowedOrigins{}
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}

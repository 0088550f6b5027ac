package utils

import (
	"net/url"
	"strings"
)

// QueryBool maps "true"/"false" to a pointer and anything else to nil, so an
// absent filter is distinguishable from an explicit false.
func QueryBool(q url.Values, key string) *bool {
	switch strings.ToLower(q.Get(key)) {
	case "true":
		return Ptr(true)
	case "false":
		return Ptr(false)
	}
	return nil
}

// QueryString returns nil for an empty query value.
func QueryString(q url.Values, key string) *string {
	if v := strings.TrimSpace(q.Get(key)); v != "" {
		return &v
	}
	return nil
}

package ratelimit

import (
	"net/http"

	"github.com/praxisio/contactrelay/pkg/clientip"
)

// KeyFunc extracts a rate-limit key from an HTTP request.
type KeyFunc func(*http.Request) string

// ByClientIP keys the limit on the best-available client IP with the given
// prefix, so different limits on the same store cannot collide.
func ByClientIP(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientip.GetIP(r)
		if ip == "" {
			return ""
		}
		return prefix + ":" + ip
	}
}

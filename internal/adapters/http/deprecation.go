package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint that still works but is on its way out.
type DeprecatedRoute struct {
	Path        string
	SunsetDate  time.Time
	Alternative string // successor endpoint, optional
}

// DeprecationMiddleware adds RFC 8594 Deprecation and Sunset headers (plus a
// successor Link when known) to deprecated endpoints so clients can migrate
// before removal.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	byPath := make(map[string]DeprecatedRoute, len(deprecated))
	for _, d := range deprecated {
		byPath[d.Path] = d
	}

	return func(c *fiber.Ctx) error {
		if d, ok := byPath[c.Path()]; ok {
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}
			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
		}
		return c.Next()
	}
}

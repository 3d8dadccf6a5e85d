package router

import "strings"

// Category is the routing category of a logical route.
type Category string

const (
	// CategoryPassthrough routes are proxied through the site's own server
	// layer rather than hitting the backend service directly.
	CategoryPassthrough Category = "passthrough"
	// CategoryDirectBackend routes talk straight to the backend service.
	CategoryDirectBackend Category = "direct-backend"
)

// Classification is the routing decision for a single route string.
type Classification struct {
	Category     Category
	RequiresAuth bool
}

// Classifier maps route strings to classifications. Classification is
// deterministic and side-effect-free: the same input always yields the same
// output.
type Classifier struct {
	passthroughPrefix string
	authPrefixes      []string
}

// DefaultPassthroughPrefix is the reserved prefix for passthrough routes.
const DefaultPassthroughPrefix = "/api/"

// NewClassifier creates a classifier. An empty passthroughPrefix uses
// DefaultPassthroughPrefix. authPrefixes lists route prefixes that require a
// bearer token.
func NewClassifier(passthroughPrefix string, authPrefixes []string) *Classifier {
	if passthroughPrefix == "" {
		passthroughPrefix = DefaultPassthroughPrefix
	}
	return &Classifier{
		passthroughPrefix: passthroughPrefix,
		authPrefixes:      append([]string(nil), authPrefixes...),
	}
}

// Classify returns the routing decision for route.
func (c *Classifier) Classify(route string) Classification {
	cat := CategoryDirectBackend
	if strings.HasPrefix(route, c.passthroughPrefix) {
		cat = CategoryPassthrough
	}
	return Classification{
		Category:     cat,
		RequiresAuth: c.requiresAuth(route),
	}
}

func (c *Classifier) requiresAuth(route string) bool {
	for _, prefix := range c.authPrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

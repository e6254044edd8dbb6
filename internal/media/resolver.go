package media

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	absoluteURL   = regexp.MustCompile(`(?i)^https?://`)
	versionedPath = regexp.MustCompile(`(?i)^api/v\d+/`)
)

// Resolver rewrites asset paths returned by the content API into absolute
// URLs on the upload origin. The backend hands out API-relative,
// upload-relative and fully-qualified URLs interchangeably.
type Resolver struct {
	base     string
	basePath string
	allowed  map[string]bool
}

// NewResolver builds a resolver for uploadBase. Absolute URLs whose origin
// is uploadBase or one of allowedOrigins are canonicalized; any other origin
// is left alone.
func NewResolver(uploadBase string, allowedOrigins ...string) *Resolver {
	base := strings.TrimRight(strings.TrimSpace(uploadBase), "/")
	r := &Resolver{base: base, allowed: make(map[string]bool)}

	if u, err := url.Parse(base); err == nil {
		r.basePath = strings.Trim(u.Path, "/")
		if o := origin(u); o != "" {
			r.allowed[o] = true
		}
	}
	for _, raw := range allowedOrigins {
		if u, err := url.Parse(strings.TrimSpace(raw)); err == nil {
			if o := origin(u); o != "" {
				r.allowed[o] = true
			}
		}
	}
	return r
}

// Base returns the upload origin without a trailing slash.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve returns the absolute display URL for path.
func (r *Resolver) Resolve(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}

	if absoluteURL.MatchString(p) {
		u, err := url.Parse(p)
		if err != nil || !r.allowed[origin(u)] {
			return p
		}
		return r.join(u.Path, true)
	}

	if strings.HasPrefix(p, "//") || hasScheme(p) {
		return p
	}
	return r.join(p, false)
}

func (r *Resolver) join(p string, fromAbsolute bool) string {
	rel := strings.TrimLeft(p, "/")
	if fromAbsolute && r.basePath != "" {
		if rel == r.basePath {
			rel = ""
		} else {
			rel = strings.TrimPrefix(rel, r.basePath+"/")
		}
	}
	rel = versionedPath.ReplaceAllString(rel, "")

	if rel == "" {
		return r.base
	}
	return r.base + "/" + rel
}

func origin(u *url.URL) string {
	if u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}

// hasScheme catches data:, blob: and similar URIs that must pass through.
func hasScheme(p string) bool {
	i := strings.Index(p, ":")
	if i <= 0 {
		return false
	}
	if slash := strings.Index(p, "/"); slash >= 0 && slash < i {
		return false
	}
	for _, c := range p[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

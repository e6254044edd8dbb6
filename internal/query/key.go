package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bilgisen/newsportal/internal/cache"
)

// Resource names a family of cached reads. Mutations invalidate whole
// resources.
type Resource string

// Params are the query-string filters of a read. Nil and empty values are
// dropped, so two parameter sets that differ only in unset filters share a
// cache entry.
type Params map[string]any

// Values encodes p as a query string map.
func (p Params) Values() url.Values {
	v := url.Values{}
	for name, value := range p {
		switch x := value.(type) {
		case nil:
			continue
		case string:
			if x == "" {
				continue
			}
			v.Set(name, x)
		case *string:
			if x == nil || *x == "" {
				continue
			}
			v.Set(name, *x)
		case *bool:
			if x == nil {
				continue
			}
			v.Set(name, fmt.Sprint(*x))
		case *int:
			if x == nil {
				continue
			}
			v.Set(name, fmt.Sprint(*x))
		default:
			v.Set(name, fmt.Sprint(x))
		}
	}
	return v
}

// Merge returns a copy of p overlaid with other.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Key identifies one cached read.
type Key struct {
	Resource Resource
	Parts    []string
	Params   Params
}

// NewKey builds a key for resource.
func NewKey(resource Resource, parts ...string) Key {
	return Key{Resource: resource, Parts: parts}
}

// With returns a copy of k carrying params.
func (k Key) With(params Params) Key {
	k.Params = params
	return k
}

// String renders the key as resource|part/part?sorted-query. Equal
// parameter values always render identically.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Resource))
	b.WriteString(cache.Separator)
	b.WriteString(strings.Join(k.Parts, "/"))
	if q := k.Params.Values().Encode(); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

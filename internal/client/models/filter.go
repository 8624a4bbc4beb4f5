package models

import (
	"net/url"
	"strings"
)

// Filter narrows a lead query. It lives only as long as one screen session
// and is never persisted.
type Filter struct {
	State  string
	City   string
	Status Status
}

// IsZero reports whether no field is set.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.State) == "" &&
		strings.TrimSpace(f.City) == "" &&
		strings.TrimSpace(string(f.Status)) == ""
}

// Query renders the filter as a query string holding exactly the set fields,
// always in the order state, city, status. Values are escaped the way
// browsers escape URI components, so spaces become %20.
func (f Filter) Query() string {
	parts := make([]string, 0, 3)
	add := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		parts = append(parts, key+"="+EscapeQueryValue(value))
	}

	add("state", f.State)
	add("city", f.City)
	add("status", string(f.Status))

	return strings.Join(parts, "&")
}

// EscapeQueryValue escapes v for use as a query value, using %20 for spaces.
func EscapeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

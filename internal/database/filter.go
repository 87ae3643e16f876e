package database

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter is a closed predicate type for Store queries. Only the two
// constructors below produce values, so a typo cannot silently drop a
// predicate the way the legacy string convention could.
type Filter interface {
	filter()
}

// EqFilter restricts rows to those whose column equals Value.
type EqFilter struct {
	Field string
	Value interface{}
}

func (EqFilter) filter() {}

// LimitFilter caps the number of rows returned. The cap is applied
// client-side after the fetch, matching the behavior of the hosted
// client this store replaced.
type LimitFilter struct {
	N int
}

func (LimitFilter) filter() {}

func Eq(field string, value interface{}) Filter {
	return EqFilter{Field: field, Value: value}
}

func Limit(n int) Filter {
	return LimitFilter{N: n}
}

// legacyFilterKeys are the only fields the old string convention ever
// decoded; ParseFilters keeps that allow-list so the export surface
// behaves exactly like earlier deployments.
var legacyFilterKeys = map[string]bool{
	"manufacturer_id": true,
	"username":        true,
	"id":              true,
	"is_active":       true,
}

// ParseFilters decodes the legacy "field=eq.<value>" / "limit=<n>" query
// convention into typed filters. Unrecognized keys and encodings are
// silently ignored; only a malformed id (non-integer) is an error.
func ParseFilters(values url.Values) ([]Filter, error) {
	var filters []Filter

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		value := vals[0]

		if key == "limit" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid limit %q", value)
			}
			filters = append(filters, Limit(n))
			continue
		}

		if !legacyFilterKeys[key] || !strings.HasPrefix(value, "eq.") {
			continue
		}
		raw := strings.TrimPrefix(value, "eq.")

		switch key {
		case "id":
			id, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid id filter %q", raw)
			}
			filters = append(filters, Eq("id", id))
		case "is_active":
			if raw == "true" {
				filters = append(filters, Eq("is_active", true))
			}
		default:
			filters = append(filters, Eq(key, raw))
		}
	}

	return filters, nil
}

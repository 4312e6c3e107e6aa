// Package ttl holds the per-category time-to-live table used when caching
// upstream responses.
package ttl

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Category names a class of upstream response with its own freshness window.
type Category string

const (
	PubMedSearch        Category = "pubmed_search"
	PubMedArticle       Category = "pubmed_article"
	OpenFDADrugs        Category = "openfda_drugs"
	OpenFDAInteractions Category = "openfda_interactions"
	CMEDPrices          Category = "cmed_prices"
	AnvisaBula          Category = "anvisa_bula"
	CID10Lookup         Category = "cid10_lookup"
	Infermedica         Category = "infermedica"
	GeminiResponse      Category = "gemini_response"
	GCPHealthcare       Category = "gcp_healthcare"
)

// Fallback is returned by Table.TTL for categories missing from the table.
const Fallback = 300 * time.Second

// ErrUnknownCategory is returned by WithOverrides for names outside the table.
var ErrUnknownCategory = errors.New("ttl: unknown category")

var defaults = map[Category]time.Duration{
	PubMedSearch:        600 * time.Second,
	PubMedArticle:       86400 * time.Second,
	OpenFDADrugs:        3600 * time.Second,
	OpenFDAInteractions: 3600 * time.Second,
	CMEDPrices:          86400 * time.Second,
	AnvisaBula:          86400 * time.Second,
	CID10Lookup:         604800 * time.Second,
	Infermedica:         300 * time.Second,
	GeminiResponse:      1800 * time.Second,
	GCPHealthcare:       300 * time.Second,
}

// Table maps categories to TTLs. A Table is immutable once built and safe
// for concurrent reads.
type Table struct {
	m map[Category]time.Duration
}

// Defaults returns the built-in table.
func Defaults() Table {
	m := make(map[Category]time.Duration, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}
	return Table{m: m}
}

// TTL returns the duration for cat, or Fallback when cat is unknown.
func (t Table) TTL(cat Category) time.Duration {
	if d, ok := t.m[cat]; ok {
		return d
	}
	return Fallback
}

// Lookup returns the duration for cat and whether the table defines it.
func (t Table) Lookup(cat Category) (time.Duration, bool) {
	d, ok := t.m[cat]
	return d, ok
}

// Categories returns the defined categories in lexical order.
func (t Table) Categories() []Category {
	out := make([]Category, 0, len(t.m))
	for k := range t.m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WithOverrides returns a copy of t with durations replaced from seconds,
// keyed by category name. Unknown names and non-positive values are errors;
// t itself is never modified.
func (t Table) WithOverrides(seconds map[string]int) (Table, error) {
	m := make(map[Category]time.Duration, len(t.m))
	for k, v := range t.m {
		m[k] = v
	}
	for name, s := range seconds {
		cat := Category(name)
		if _, ok := m[cat]; !ok {
			return Table{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
		if s <= 0 {
			return Table{}, fmt.Errorf("ttl: override for %q must be positive, got %d", name, s)
		}
		m[cat] = time.Duration(s) * time.Second
	}
	return Table{m: m}, nil
}

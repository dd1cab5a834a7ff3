package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"portalcms/internal/content"
)

// Limits for listing query parameters. Overlong values are truncated or
// dropped rather than rejected; the listing endpoint never fails on bad input.
const (
	maxSearchLen   = 200
	maxCategoryLen = 100
	maxLimitLen    = 9
)

// listQuery extracts and bounds the listing parameters from q.
func listQuery(q url.Values) content.ListQuery {
	return content.ListQuery{
		Category: truncate(strings.TrimSpace(q.Get("category")), maxCategoryLen),
		Featured: strings.TrimSpace(q.Get("featured")),
		Search:   truncate(strings.TrimSpace(q.Get("search")), maxSearchLen),
		Limit:    boundedLimit(strings.TrimSpace(q.Get("limit"))),
	}
}

// boundedLimit drops limits too long to be a sensible row count; they
// behave like an absent limit, which returns every match anyway.
func boundedLimit(s string) string {
	if len(s) > maxLimitLen {
		return ""
	}
	return s
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// cacheQuery keeps only the parameters that affect the listing, so that
// unrelated parameters (cache busters, tracking) share one entry.
func cacheQuery(lq content.ListQuery) url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("category", lq.Category)
	set("featured", lq.Featured)
	set("search", lq.Search)
	set("limit", lq.Limit)
	return v
}

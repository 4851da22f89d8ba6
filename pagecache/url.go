package pagecache

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL into a cache key: scheme and host are
// lowercased, the fragment is stripped, and query parameters are sorted
// by name with duplicate values kept in their original order. Path case
// and trailing slashes are preserved, they are significant on enough
// sites to matter. Unparseable input is returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.RawQuery != "" {
		q, err := url.ParseQuery(u.RawQuery)
		if err == nil {
			// Encode sorts keys and keeps per-key value order.
			u.RawQuery = q.Encode()
		}
	}
	return u.String()
}

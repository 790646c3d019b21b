package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL fills lib/pq connection parameters the caller left unset:
// application_name for pg_stat_activity and, when asked, binary_parameters so
// every query runs in a single round trip behind a transaction pooler.
// Key/value DSNs are returned as given.
func normalizeDBURL(raw, applicationName string, binaryParameters bool) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	changed := false
	if name := strings.TrimSpace(applicationName); name != "" && !query.Has("application_name") {
		query.Set("application_name", name)
		changed = true
	}
	if binaryParameters && !query.Has("binary_parameters") {
		query.Set("binary_parameters", "yes")
		changed = true
	}
	if !changed {
		return raw
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

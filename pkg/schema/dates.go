package schema

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	isoWithZoneRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?(\.\d+)?(Z|[+-]\d{2}:?\d{2})$`)
	isoNoZoneRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?(\.\d+)?$`)
	dateOnlyRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	digitsOnlyRe  = regexp.MustCompile(`^\d+$`)
)

// millisecondThreshold: a Unix value above 10 billion cannot be seconds
// (year ~2286) and is treated as milliseconds.
const millisecondThreshold = 10_000_000_000

// NormalizeDate renders a raw date string as YYYY-MM-DDTHH:MM:SSZ (or with
// the original offset when one was declared). An unparseable input yields
// "" — never the current time, never a guess. Normalization is idempotent:
// an already-normalized string passes through unchanged.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if isoWithZoneRe.MatchString(raw) {
		return raw
	}
	if isoNoZoneRe.MatchString(raw) {
		return raw + "Z"
	}
	if dateOnlyRe.MatchString(raw) {
		return raw + "T00:00:00Z"
	}

	if digitsOnlyRe.MatchString(raw) {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ""
		}
		if ts > millisecondThreshold {
			ts /= 1000
		}
		return time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05Z")
	}

	// Last resort for loose formats ("Jan 2, 2006", RFC1123, ...).
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

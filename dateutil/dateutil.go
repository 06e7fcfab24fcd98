// Package dateutil normalizes the date encodings found in registry records.
package dateutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
	"github.com/miku/orcidkit/tree"
)

// Unknown is the normalized form of a date without a year.
const Unknown = "unknown"

// PartialDate normalizes a registry partial date, a mapping with optional
// year, month and day components, to YYYY-MM-DD. A component is either a
// scalar or a mapping with a "value" key, e.g. {"year": {"value": "2020"}}.
// Missing month or day default to 01. Without a year the result is Unknown.
// Calendar correctness is not checked, 2021-02-30 passes through.
func PartialDate(v any) string {
	year := component(v, "year")
	if year == "" {
		return Unknown
	}
	month := component(v, "month")
	if month == "" {
		month = "01"
	}
	day := component(v, "day")
	if day == "" {
		day = "01"
	}
	return fmt.Sprintf("%s-%s-%s", year, zeroPad(month), zeroPad(day))
}

func component(v any, key string) string {
	c := tree.Get(v, nil, key)
	switch tree.KindOf(c) {
	case tree.Scalar:
		return strings.TrimSpace(tree.Text(c))
	case tree.Mapping:
		return strings.TrimSpace(tree.StringOr(c, "", "value"))
	}
	return ""
}

func zeroPad(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// Timestamp normalizes a registry timestamp to RFC 3339 in UTC. Numbers are
// taken as milliseconds since the epoch, strings are parsed leniently. Returns
// nil if v holds neither.
func Timestamp(v any) *string {
	var t time.Time
	switch x := v.(type) {
	case string:
		parsed, err := Parse(x)
		if err != nil {
			return nil
		}
		t = parsed
	case float64:
		t = time.UnixMilli(int64(x))
	case int64:
		t = time.UnixMilli(x)
	case int:
		t = time.UnixMilli(int64(x))
	default:
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// Parse parses a date string in one of many common layouts.
func Parse(value string) (time.Time, error) {
	return dateparse.ParseStrict(value)
}

// Since parses value and rounds it down to the beginning of its day, so
// "2024-03-05" and "2024-03-05 17:30" select the same records.
func Since(value string) (time.Time, error) {
	t, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return now.With(t).BeginningOfDay(), nil
}

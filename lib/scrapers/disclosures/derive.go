package disclosures

import (
	"strings"
	"time"
)

// destination state recorded for foreign trips, which the filings
// print without a "City, ST" comma
const ForeignState = "FX"

// state/district recorded for administrative staff filers, whose
// filings carry neither
const AdminFiler = "ADMIN"

// filer names come in "First Last" form, everything after the first
// space belongs to the last name
func splitFilerName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

// member names come in "Last, First" form. without a comma the whole
// string is treated as the last name, mirroring how the filings
// record single-token names.
func splitMemberName(name string) (first, last, full string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ""
	}
	if !strings.Contains(name, ",") {
		return "", name, name
	}
	parts := strings.SplitN(name, ",", 2)
	last = strings.TrimSpace(parts[0])
	first = strings.TrimSpace(parts[1])
	full = strings.TrimSpace(first + " " + last)
	return first, last, full
}

// destinations come as "City, ST" for domestic trips. no comma means
// a foreign trip: the whole string is the place and the state slot
// gets the foreign marker.
func splitDestination(destination string) (city, state string) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", ""
	}
	if !strings.Contains(destination, ",") {
		return destination, ForeignState
	}
	parts := strings.SplitN(destination, ",", 2)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

var travelDateFormats = []string{
	"1/2/2006",
	"2006-01-02",
	"1/2/06",
}

// normalizes the filing date formats to ISO dates. unknown formats
// pass through verbatim so a malformed date never drops the record.
func normalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	for _, format := range travelDateFormats {
		parsed, err := time.Parse(format, raw)
		if err == nil {
			return parsed.Format("2006-01-02"), true
		}
	}
	return raw, false
}

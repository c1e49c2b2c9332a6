package models

import (
	"regexp"
	"strings"
	"time"
)

// isoMillis matches the timestamp layout listings are keyed by.
const isoMillis = "2006-01-02T15:04:05.000Z"

// freshWindow is how recent a listing must be to count as new.
const freshWindow = 24 * time.Hour

var whitespaceRun = regexp.MustCompile(`\s+`)

// FormatTimestamp renders t as an ISO-8601 UTC timestamp with milliseconds.
// Returns "" for nil.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(isoMillis)
}

// DeriveID builds the stable listing key from company, title and publish time.
// Whitespace runs collapse to "-" and the result is lower-cased.
func DeriveID(company, title string, publishedAt *time.Time) string {
	raw := company + "-" + title + "-" + FormatTimestamp(publishedAt)
	return strings.ToLower(whitespaceRun.ReplaceAllString(raw, "-"))
}

// Slugify lower-cases s and replaces whitespace runs with "-".
func Slugify(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-"))
}

// IsFresh reports whether the job was published within the last 24 hours.
func IsFresh(job Job, now time.Time) bool {
	if job.PublishedAt == nil {
		return false
	}
	age := now.Sub(*job.PublishedAt)
	return age >= 0 && age <= freshWindow
}

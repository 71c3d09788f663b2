package collector

import (
	"regexp"
	"time"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CloseCutoff is the local time after which today's daily bar is considered published.
var CloseCutoff = struct{ Hour, Minute int }{17, 30}

// DefaultEndDate returns today when now is past the close cutoff, otherwise yesterday.
func DefaultEndDate(now time.Time) string {
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), CloseCutoff.Hour, CloseCutoff.Minute, 0, 0, now.Location())
	if now.After(cutoff) {
		return now.Format(dateLayout)
	}
	return now.AddDate(0, 0, -1).Format(dateLayout)
}

// ResolveDates fills a missing end date with DefaultEndDate and a missing start with the end.
func ResolveDates(startDate, endDate string, now time.Time) (string, string) {
	if endDate == "" {
		endDate = DefaultEndDate(now)
	}
	if startDate == "" {
		startDate = endDate
	}
	return startDate, endDate
}

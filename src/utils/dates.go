package utils

import (
	"fmt"
	"time"
)

// DOBParts carries the day/month/year split the CRM wants alongside the
// composed DD/MM/YYYY form.
type DOBParts struct {
	Day       string
	Month     string
	Year      string
	Formatted string
}

// SplitDOB formats a parsed date of birth into CRM parts. A zero time
// yields empty parts, never an error.
func SplitDOB(d time.Time) DOBParts {
	if d.IsZero() {
		return DOBParts{}
	}
	return DOBParts{
		Day:       fmt.Sprintf("%02d", d.Day()),
		Month:     fmt.Sprintf("%02d", int(d.Month())),
		Year:      fmt.Sprintf("%d", d.Year()),
		Formatted: d.Format("02/01/2006"),
	}
}

// FormatCRMTime renders a timestamp in the exact textual form the CRM
// expects: DD/MM/YYYY HH:mm:ss UTC±HH.
func FormatCRMTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	_, offset := t.Zone()
	return fmt.Sprintf("%s UTC%+03d", t.Format("02/01/2006 15:04:05"), offset/3600)
}

// Package report renders analytics reports as spreadsheet downloads.
package report

import (
	"regexp"
	"strings"
	"time"
)

// Formats accepted by the analytics export.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ContentTypes maps an export format to its MIME type.
var ContentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv; charset=utf-8",
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// Filename builds a Content-Disposition-safe file name for the range.
func Filename(prefix string, start, end time.Time, format string) string {
	name := nonAlphanumeric.ReplaceAllString(prefix, "_")
	name = multiUnderscore.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "report"
	}
	if len(name) > 60 {
		name = name[:60]
	}
	return name + "_" + start.Format("20060102") + "-" + end.Format("20060102") + "." + format
}

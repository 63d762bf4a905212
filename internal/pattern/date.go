package pattern

import (
	"fmt"
	"strings"

	"dcimsort/internal/config"
	"dcimsort/internal/media"
)

// Date renders the capture time, e.g. "2023-05" for [year, month].
type Date struct {
	parts        []string
	separator    string
	defaultValue string
	useFileTime  bool
}

func newDate(cfg config.Segment) Date {
	d := Date{
		parts:        cfg.Parts,
		separator:    cfg.Separator,
		defaultValue: cfg.Default,
		useFileTime:  cfg.UseFileTime,
	}
	if len(d.parts) == 0 {
		d.parts = []string{"year", "month"}
	}
	if d.separator == "" {
		d.separator = "-"
	}
	if d.defaultValue == "" {
		d.defaultValue = "unknown"
	}
	return d
}

func (d Date) Translate(file media.File) (string, bool) {
	ts := file.Metadata().CreatedAt
	if ts.IsZero() && d.useFileTime {
		ts = file.ModTime
	}
	if ts.IsZero() {
		return d.defaultValue, true
	}
	values := make([]string, 0, len(d.parts))
	for _, part := range d.parts {
		switch part {
		case "year":
			values = append(values, fmt.Sprintf("%04d", ts.Year()))
		case "month":
			values = append(values, fmt.Sprintf("%02d", int(ts.Month())))
		case "day":
			values = append(values, fmt.Sprintf("%02d", ts.Day()))
		case "hour":
			values = append(values, fmt.Sprintf("%02d", ts.Hour()))
		case "minute":
			values = append(values, fmt.Sprintf("%02d", ts.Minute()))
		case "second":
			values = append(values, fmt.Sprintf("%02d", ts.Second()))
		}
	}
	return strings.Join(values, d.separator), true
}

func (d Date) Optional() bool { return false }

func (d Date) String() string {
	return fmt.Sprintf("date(%s, sep=%q, default=%q, file_time=%t)",
		strings.Join(d.parts, "+"), d.separator, d.defaultValue, d.useFileTime)
}


package main

import (
	"github.com/dustin/go-humanize"

	"dcimsort/internal/pipeline"
)

func renderReport(report pipeline.Report) string {
	rows := [][]string{
		{"Sorted", count(report.Success)},
		{"Skipped", count(report.Skipped)},
		{"Duplicates", count(report.Duplicate)},
		{"Errors", count(report.Errored)},
		{"Directories", count(report.Directories)},
	}
	return renderTable([]string{"Result", "Files"}, rows, []columnAlignment{alignLeft, alignRight})
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

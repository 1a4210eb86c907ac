package controller

import (
	"fmt"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// Message types.
type batchInfoMsg struct {
	files   int
	threads int
}

type startFileMsg struct {
	path   string
	thread int
}

type completedFileMsg struct {
	result fileResult
}

type summaryMsg struct {
	total int
}

type inspectionMsg struct {
	view inspectionView
}

type scriptMsg struct {
	path string
	text string
}

// Result statuses.
const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// fileResult holds information about a processed script.
type fileResult struct {
	file    string
	output  string
	status  string
	indices int
	aliases int
	sites   int
	detail  string
	diff    string
}

// Implement list.Item interface for fileResult.
func (r fileResult) FilterValue() string {
	return r.file + " " + r.status
}

func newFileResult(report m.Report) fileResult {
	res := fileResult{
		file:    string(report.Origin),
		output:  string(report.Output),
		status:  statusOK,
		indices: report.UniqueIndices,
		aliases: report.Aliases,
		sites:   report.CallSites,
		diff:    report.Diff,
	}

	if report.Failed() {
		res.status = statusFailed
		res.detail = report.Err.Error()

		return res
	}

	res.detail = fmt.Sprintf("%s · %d rotations", sizeChange(report), report.Rotations)

	return res
}

// List item types.
type entryItem struct {
	index string
	value string
	raw   bool
}

func (e entryItem) FilterValue() string {
	return e.index + " " + e.value
}

package controller

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	m "github.com/mouse-blink/unrotate/internal/model"
)

// inspectionView is the printable form of an inspection.
type inspectionView struct {
	Script    string       `json:"script" yaml:"script"`
	Decoder   string       `json:"decoder" yaml:"decoder"`
	Aliases   []string     `json:"aliases" yaml:"aliases"`
	Provider  string       `json:"provider" yaml:"provider"`
	Target    string       `json:"target" yaml:"target"`
	Checksum  string       `json:"checksum" yaml:"checksum"`
	Offset    string       `json:"offset" yaml:"offset"`
	Rotations int          `json:"rotations" yaml:"rotations"`
	Table     []tableEntry `json:"table" yaml:"table"`
}

// tableEntry is one converged string table slot with the call index that
// decodes to it.
type tableEntry struct {
	Index string `json:"index" yaml:"index"`
	Value string `json:"value" yaml:"value"`
	Raw   bool   `json:"raw,omitempty" yaml:"raw,omitempty"`
}

func newInspectionView(insp m.Inspection) inspectionView {
	entries := make([]tableEntry, 0, len(insp.Table))
	for i, el := range insp.Table {
		entries = append(entries, tableEntry{
			Index: fmt.Sprintf("%#x", insp.Offset+int64(i)),
			Value: el.Value,
			Raw:   el.Raw,
		})
	}

	aliases := insp.Aliases
	if aliases == nil {
		aliases = []string{}
	}

	return inspectionView{
		Script:    string(insp.Origin),
		Decoder:   insp.Decoder,
		Aliases:   aliases,
		Provider:  insp.Bootstrap.ArrayProvider,
		Target:    fmt.Sprintf("%#x", insp.Bootstrap.Target),
		Checksum:  insp.Bootstrap.ConvergenceExpr,
		Offset:    fmt.Sprintf("%#x", insp.Offset),
		Rotations: insp.Rotations,
		Table:     entries,
	}
}

func sortedReports(reports []m.Report) []m.Report {
	sorted := make([]m.Report, len(reports))
	copy(sorted, reports)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Origin < sorted[j].Origin
	})

	return sorted
}

func sizeChange(report m.Report) string {
	return fmt.Sprintf("%s → %s",
		humanize.Bytes(uint64(report.InputSize)),
		humanize.Bytes(uint64(report.OutputSize)))
}

// quoteForDisplay quotes a table value so whitespace and control characters
// stay visible.
func quoteForDisplay(s string) string {
	return strconv.Quote(s)
}

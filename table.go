package main

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/jsign/contract-sizes/analysis"
	"github.com/jsign/contract-sizes/report"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)

	red        = color.New(color.FgRed).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	green      = color.New(color.FgGreen).SprintFunc()
	bold       = color.New(color.Bold).SprintFunc()
	pseudoName = color.New(color.FgHiBlack, color.Italic).SprintFunc()
)

type column struct {
	name  string
	align int
}

// sizeTable lays out size entries the way the contract-sizes task prints them.
type sizeTable struct {
	maxSize int
	details bool
	delta   bool
	columns []column
}

func newTable(cfg Config, chunkers []analysis.Chunker, delta bool) *sizeTable {
	t := &sizeTable{maxSize: cfg.MaxContractSize, details: cfg.Details, delta: delta}
	t.columns = append(t.columns, column{"contract", tablewriter.ALIGN_LEFT})
	if t.details {
		t.columns = append(t.columns, column{"source", tablewriter.ALIGN_LEFT}, column{"code%", tablewriter.ALIGN_RIGHT})
	}
	t.columns = append(t.columns, column{"code", tablewriter.ALIGN_RIGHT})
	if t.delta {
		t.columns = append(t.columns, column{"±code", tablewriter.ALIGN_RIGHT})
	}
	t.columns = append(t.columns, column{"init", tablewriter.ALIGN_RIGHT})
	for _, ch := range chunkers {
		t.columns = append(t.columns, column{ch.Name(), tablewriter.ALIGN_RIGHT}, column{stemsColumn(ch.Name()), tablewriter.ALIGN_RIGHT})
	}
	return t
}

func (t *sizeTable) render(w io.Writer, entries []report.Entry) {
	table := tablewriter.NewWriter(w)
	align := make([]int, len(t.columns))
	for i, c := range t.columns {
		align[i] = c.align
	}
	table.SetHeader(t.header())
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment(align)

	for i, e := range entries {
		if t.details {
			if i > 0 {
				table.Append(make([]string, len(t.columns)))
			}
			for _, src := range e.Sources {
				table.Append(t.sourceRow(e, src))
			}
		}
		table.Append(t.totalRow(e))
	}
	table.Render()
}

func (t *sizeTable) header() []string {
	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.name
	}
	return header
}

func (t *sizeTable) row(values map[string]string) []string {
	row := make([]string, len(t.columns))
	for i, c := range t.columns {
		row[i] = values[c.name]
	}
	return row
}

func (t *sizeTable) sourceRow(e report.Entry, src analysis.SourceSize) []string {
	name := src.Name
	if src.Pseudo() {
		name = pseudoName(name)
	}
	values := map[string]string{
		"contract": e.Name,
		"source":   name,
		"code%":    percent(src.CodeSize, e.CodeSize),
		"code":     printer.Sprintf("%d", src.CodeSize),
		"init":     printer.Sprintf("%d", src.InitSize),
	}
	if t.delta && e.Delta != nil {
		if d, ok := e.Delta.Sources[src.Name]; ok {
			values["±code"] = formatDelta(d.Code)
		}
	}
	return t.row(values)
}

func (t *sizeTable) totalRow(e report.Entry) []string {
	values := map[string]string{
		"contract": e.Name,
		"code":     t.colorSize(e.CodeSize),
		"init":     printer.Sprintf("%d", e.InitSize),
	}
	if t.details {
		if len(e.Sources) > 0 {
			values["source"] = bold("== Total")
		}
		values["code"] = bold(values["code"])
		values["init"] = bold(values["init"])
	}
	if t.delta && e.Delta != nil {
		values["±code"] = formatDelta(e.Delta.Code)
	}
	for _, m := range e.Chunks {
		values[m.ChunkerName] = printer.Sprintf("%d", m.ChunkedSizeBytes)
		values[stemsColumn(m.ChunkerName)] = printer.Sprintf("%d", m.Stems)
	}
	return t.row(values)
}

func stemsColumn(chunker string) string {
	return chunker + " stems"
}

// colorSize flags sizes over the limit in red and sizes close to it in yellow.
func (t *sizeTable) colorSize(size int) string {
	v := printer.Sprintf("%d", size)
	switch {
	case size > t.maxSize:
		return red(v)
	case float64(size) > float64(t.maxSize)*0.85:
		return yellow(v)
	}
	return v
}

func formatDelta(d int) string {
	switch {
	case d > 0:
		return red(printer.Sprintf("+%d", d))
	case d < 0:
		return green(printer.Sprintf("-%d", -d))
	}
	return ""
}

func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(part)*100/float64(total))))
}

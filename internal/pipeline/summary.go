package pipeline

import (
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/drewzambelli/wtml/lib/timezone"
)

// RenderSummary prints the run counters after a run.
func (p *Pipeline) RenderSummary(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Counter", "Value"})

	for _, row := range p.Stats.Rows() {
		t.AppendRow(table.Row{row.Name, row.Value})
	}
	t.AppendFooter(table.Row{"elapsed", p.Stats.Elapsed()})

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderStatus prints the artifact inventory of the work directory.
func (p *Pipeline) RenderStatus(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Artifact", "Version", "Rows", "Modified", "State"})

	for _, info := range p.Status() {
		state := "ok"
		rows := ""
		modified := ""
		switch {
		case !info.Exists:
			state = "missing"
		case info.ReadErr != nil:
			state = info.ReadErr.Error()
			modified = info.ModTime.In(timezone.Location).Format(time.RFC822)
		default:
			rows = strconv.Itoa(info.Records)
			modified = info.ModTime.In(timezone.Location).Format(time.RFC822)
		}
		t.AppendRow(table.Row{info.Name, info.Version, rows, modified, state})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

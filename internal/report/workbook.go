package report

import (
	"strings"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/tealeg/xlsx/v2"
)

const (
	sheetName   = "Trust"
	floatFormat = "0.0#"
)

type palette struct {
	header      *xlsx.Style
	rotated     *xlsx.Style
	big         *xlsx.Style
	trust       *xlsx.Style
	distrust    *xlsx.Style
	neutral     *xlsx.Style
	fact        *xlsx.Style
	instruction *xlsx.Style
	distinct    *xlsx.Style
	other       *xlsx.Style
}

func filled(argb, horizontal string) *xlsx.Style {
	s := xlsx.NewStyle()
	s.Fill = *xlsx.NewFill("solid", argb, argb)
	s.ApplyFill = true
	s.Alignment.Horizontal = horizontal
	s.ApplyAlignment = true
	return s
}

func newPalette() *palette {
	header := xlsx.NewStyle()
	header.Alignment.Horizontal = "left"
	header.ApplyAlignment = true

	rotated := xlsx.NewStyle()
	rotated.Alignment.Horizontal = "center"
	rotated.Alignment.TextRotation = 90
	rotated.ApplyAlignment = true

	big := xlsx.NewStyle()
	big.Alignment.Horizontal = "center"
	big.ApplyAlignment = true
	big.Font.Size = 18
	big.ApplyFont = true

	return &palette{
		header:      header,
		rotated:     rotated,
		big:         big,
		trust:       filled("FF339966", "center"),
		distrust:    filled("FFFF5F5F", "center"),
		neutral:     filled("FFFFFFCC", "center"),
		fact:        filled("FF99CC00", "center"),
		instruction: filled("FFFFCC00", "center"),
		distinct:    filled("FFCCFFFF", "left"),
		other:       filled("FFFFFF99", "left"),
	}
}

func (p *palette) byValue(v float64) *xlsx.Style {
	switch {
	case v > 0:
		return p.trust
	case v < 0:
		return p.distrust
	}
	return p.neutral
}

func (p *palette) byKind(info *domain.Information) *xlsx.Style {
	if info.IsInstruction {
		return p.instruction
	}
	return p.fact
}

func (p *palette) byOrigin(info *domain.Information, distinguished string) *xlsx.Style {
	if !info.IsPriorKnowledge() && info.Source == distinguished {
		return p.distinct
	}
	return p.other
}

// sheetLayout writes the two header rows and tracks the next free column.
type sheetLayout struct {
	sheet  *xlsx.Sheet
	top    *xlsx.Row
	bottom *xlsx.Row
	p      *palette
}

func newSheetLayout(f *xlsx.File, p *palette) (*sheetLayout, error) {
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, err
	}
	return &sheetLayout{sheet: sheet, top: sheet.AddRow(), bottom: sheet.AddRow(), p: p}, nil
}

// fixed adds a column header spanning both header rows.
func (l *sheetLayout) fixed(title string, style *xlsx.Style) {
	c := l.top.AddCell()
	c.SetString(title)
	c.SetStyle(style)
	c.Merge(0, 1)
	l.bottom.AddCell()
}

// group adds a header over len(sub) columns with one sub header each.
func (l *sheetLayout) group(title string, sub ...string) {
	for i, s := range sub {
		c := l.top.AddCell()
		if i == 0 {
			c.SetString(title)
			c.SetStyle(l.p.big)
			c.Merge(len(sub)-1, 0)
		}
		b := l.bottom.AddCell()
		b.SetString(s)
		b.SetStyle(l.p.header)
	}
}

func (p *palette) float(row *xlsx.Row, v float64) {
	c := row.AddCell()
	c.SetFloatWithFormat(v, floatFormat)
	c.SetStyle(p.byValue(v))
}

func (p *palette) optional(row *xlsx.Row, v *float64) {
	if v == nil {
		row.AddCell()
		return
	}
	p.float(row, *v)
}

// TrustWorkbook lays out every preset of one weight side by side: a row per
// information with its metadata, then initial and propagated trust for each
// preset.
func TrustWorkbook(infos []*domain.Information, ws service.WeightSweep, distinguished string) (*xlsx.File, error) {
	f := xlsx.NewFile()
	p := newPalette()
	l, err := newSheetLayout(f, p)
	if err != nil {
		return nil, err
	}

	l.fixed("Time", p.rotated)
	l.fixed("Message", p.header)
	l.fixed("#Arg", p.rotated)
	l.fixed("#Rep", p.rotated)
	l.fixed("fTi", p.header)
	l.fixed("fTa", p.header)
	for _, c := range ws.Configs {
		l.group(c.Configuration.Name, "iT", "T")
	}

	for _, info := range infos {
		row := l.sheet.AddRow()
		t := row.AddCell()
		t.SetInt(info.Timing)
		t.SetStyle(p.byKind(info))
		msg := row.AddCell()
		msg.SetString(info.Message)
		msg.SetStyle(p.byOrigin(info, distinguished))
		row.AddCell().SetInt(len(info.TargetedBy))
		row.AddCell().SetInt(len(info.RepeatedBy))
		p.optional(row, info.FeltTrustImmediately)
		p.optional(row, info.FeltTrustAfterwards)

		for _, c := range ws.Configs {
			pair := c.Result[info.ID]
			p.float(row, pair.Initial)
			p.float(row, pair.Current)
		}
	}
	return f, nil
}

func joinScores(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = trust(v)
	}
	return strings.Join(parts, "; ")
}

// ScoresWorkbook lists the categorizer values and accumulated scores of both
// argumentation families for every information.
func ScoresWorkbook(r *service.ArgumentationReport, distinguished string) (*xlsx.File, error) {
	f := xlsx.NewFile()
	p := newPalette()
	l, err := newSheetLayout(f, p)
	if err != nil {
		return nil, err
	}

	l.fixed("Time", p.rotated)
	l.fixed("Message", p.header)
	l.fixed("#Arg+", p.rotated)
	l.fixed("#Arg-", p.rotated)
	l.group("Undercuts", "hCat+", "hCat-", "logAccumulator")
	l.group("Rebuttals", "hCat+", "hCat-", "logAccumulator")

	for _, s := range r.Scores {
		row := l.sheet.AddRow()
		t := row.AddCell()
		t.SetInt(s.Info.Timing)
		t.SetStyle(p.byKind(s.Info))
		msg := row.AddCell()
		msg.SetString(s.Symbol + ": " + s.Info.Message)
		msg.SetStyle(p.byOrigin(s.Info, distinguished))
		row.AddCell().SetInt(s.PlusArgs)
		row.AddCell().SetInt(s.MinusArgs)

		for _, fam := range []service.ScoreFamily{s.Undercuts, s.Rebuttals} {
			row.AddCell().SetString(joinScores(fam.Plus))
			row.AddCell().SetString(joinScores(fam.Minus))
			p.float(row, fam.Score)
		}
	}
	return f, nil
}

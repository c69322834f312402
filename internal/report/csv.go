// Package report renders analysis results as CSV tables and xlsx workbooks.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/rotisserie/eris"
)

// table buffers records and keeps the first write error.
type table struct {
	w   *csv.Writer
	err error
}

func newTable(w io.Writer, comma rune) *table {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	return &table{w: cw}
}

func (t *table) row(fields ...string) {
	if t.err != nil {
		return
	}
	t.err = t.w.Write(fields)
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	t.w.Flush()
	return t.w.Error()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func trust(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteGeneral writes message and knowledge counts per partner.
func WriteGeneral(w io.Writer, st *service.ConversationStats) error {
	t := newTable(w, ',')

	t.row("MessagePart")
	t.row(append([]string{""}, st.Partners...)...)
	perPartner := func(label string, counts map[string]int, withAuthor bool) {
		fields := []string{label}
		for _, p := range st.Partners {
			fields = append(fields, itoa(counts[p]))
		}
		if withAuthor {
			fields = append(fields, itoa(counts[domain.AuthorName]))
		}
		t.row(fields...)
	}
	perPartner("SendMsg", st.Messages.Sent, false)
	perPartner("ReceiveMsg", st.Messages.Received, false)
	perPartner("Interrupted", st.Messages.Interrupted, false)
	t.row()

	t.row("KnowledgePart")
	t.row(append(append([]string{"Information"}, st.Partners...), domain.AuthorName)...)
	perPartner("Facts", st.Information.Facts, true)
	perPartner("Instructions", st.Information.Instructions, true)
	t.row("Repetitions", itoa(st.Repetitions))

	return eris.Wrap(t.flush(), "report: write general csv")
}

// WriteArgumentMatrix writes the link matrix with cells
// attacks/supports/recursive attacks/recursive supports.
func WriteArgumentMatrix(w io.Writer, st *service.ConversationStats) error {
	t := newTable(w, ',')
	m := st.Links

	t.row(append([]string{"Attacks/Supports/RecAttacks/RecSupports"}, m.Headers...)...)
	for i, h := range m.Headers {
		fields := []string{h}
		for j := range m.Headers {
			fields = append(fields, fmt.Sprintf("%d/%d/%d/%d",
				m.Attacks[i][j], m.Supports[i][j], m.RecAttacks[i][j], m.RecSupports[i][j]))
		}
		t.row(fields...)
	}
	return eris.Wrap(t.flush(), "report: write argument matrix")
}

// WriteLogicArguments lists the literal symbols per partner, every derived
// argument, the non-trivial undercut trees and the rebuttals.
func WriteLogicArguments(w io.Writer, conv *domain.Conversation, r *service.ArgumentationReport) error {
	t := newTable(w, ',')

	section := func(title string, partner string, prior bool, instructions bool) {
		var rows [][]string
		for _, info := range r.Infos {
			if info.IsInstruction != instructions || info.IsPriorKnowledge() != prior {
				continue
			}
			if !prior && info.Source != partner {
				continue
			}
			rows = append(rows, []string{r.Symbols[info.Positive()], info.Message})
		}
		if len(rows) == 0 {
			return
		}
		t.row(title)
		t.row("Literal", "Message")
		for _, row := range rows {
			t.row(row...)
		}
		t.row()
	}
	for _, p := range conv.PartnerNames() {
		section(p+" Facts", p, false, false)
		section(p+" Instructions", p, false, true)
	}
	section("Author PreKnowledge Facts", "", true, false)
	section("Author PreKnowledge Instructions", "", true, true)

	t.row("Logic Arguments (<{premises} claim>)")
	t.row("Claim", "Argument")
	for _, l := range r.Arguments.Literals() {
		args := r.Arguments.For(l)
		if len(args) == 0 {
			continue
		}
		t.row(r.Symbols[l], r.Symbols.Arguments(args))
	}
	t.row()

	t.row("Undercut Trees")
	for _, tree := range r.Undercuts.Trees() {
		if tree.IsLeaf() {
			continue
		}
		t.row(r.Symbols.Tree(tree))
	}
	t.row()

	t.row("Rebuttals")
	t.row("Claim", "rebutted by")
	for _, l := range r.Arguments.Literals() {
		args := r.Rebuttals[l]
		if len(args) == 0 {
			continue
		}
		t.row(r.Symbols[l], r.Symbols.Arguments(args))
	}

	return eris.Wrap(t.flush(), "report: write logic arguments")
}

// WriteTrustTable writes one trust result as a tab separated table in
// timing order.
func WriteTrustTable(w io.Writer, infos []*domain.Information, result domain.TrustResult) error {
	t := newTable(w, '\t')
	byID := make(map[string]*domain.Information, len(infos))
	for _, i := range infos {
		byID[i.ID.String()] = i
	}

	t.row("TimeStamp", "Message", "InitialTrust", "CurrentTrust")
	for _, id := range service.SortedByTiming(infos, result) {
		info := byID[id.String()]
		pair := result[id]
		t.row(itoa(info.Timing), info.Message, trust(pair.Initial), trust(pair.Current))
	}
	return eris.Wrap(t.flush(), "report: write trust table")
}

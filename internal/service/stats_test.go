package service

import (
	"testing"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	b := newConv("LLM", "Other")
	p := b.prior("P")
	instr := domain.NewPriorKnowledge("I", "do it", true)
	b.conv.Author.PreKnowledge = append(b.conv.Author.PreKnowledge, instr)

	b.send("LLM")
	m1, infos := b.receive("LLM", "N1")
	m1.Interrupted = true
	n1 := infos[0]
	m2, infos := b.receive("Other", "N2")
	n2 := infos[0]
	n2.IsInstruction = true
	b.repeat(m2, n1)
	b.send("Other")
	b.send("Other")

	attack := b.link(n1, p, domain.LinkAttack)
	b.link(n2, attack, domain.LinkSupport)
	b.link(n2, instr, domain.LinkStrongSupport)
	b.link(p, n1, domain.LinkSupplement)

	st := ComputeStats(b.conv)

	assert.Equal(t, []string{"LLM", "Other"}, st.Partners)
	assert.Equal(t, map[string]int{"LLM": 1, "Other": 2}, st.Messages.Sent)
	assert.Equal(t, map[string]int{"LLM": 1, "Other": 1}, st.Messages.Received)
	assert.Equal(t, map[string]int{"LLM": 1}, st.Messages.Interrupted)
	assert.Equal(t, map[string]int{"LLM": 1, domain.AuthorName: 1}, st.Information.Facts)
	assert.Equal(t, map[string]int{"Other": 1, domain.AuthorName: 1}, st.Information.Instructions)
	assert.Equal(t, 1, st.Repetitions)

	m := st.Links
	require.Len(t, m.Headers, 6)
	assert.Equal(t, []string{"LLM F", "LLM I", "Other F", "Other I", "Author F", "Author I"}, m.Headers)

	assert.Equal(t, 1, m.Attacks[0][4])
	assert.Equal(t, 1, m.RecSupports[3][4])
	assert.Equal(t, 1, m.Supports[3][5])

	total := 0
	for _, grid := range [][][]int{m.Attacks, m.Supports, m.RecAttacks, m.RecSupports} {
		for _, row := range grid {
			for _, v := range row {
				total += v
			}
		}
	}
	// the supplement is not counted
	assert.Equal(t, 3, total)
}

package service

import (
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

// MessageCounts counts messages per partner.
type MessageCounts struct {
	Sent        map[string]int `json:"sent"`
	Received    map[string]int `json:"received"`
	Interrupted map[string]int `json:"interrupted"`
}

// InformationCounts counts facts and instructions per partner. Prior
// knowledge is counted under domain.AuthorName.
type InformationCounts struct {
	Facts        map[string]int `json:"facts"`
	Instructions map[string]int `json:"instructions"`
}

// LinkMatrix counts links between the fact and instruction groups of every
// partner and the author. Row and column i correspond to Headers[i]; rows are
// link sources, columns targets. Recursive links count towards the
// information their chain ends at.
type LinkMatrix struct {
	Headers     []string `json:"headers"`
	Attacks     [][]int  `json:"attacks"`
	Supports    [][]int  `json:"supports"`
	RecAttacks  [][]int  `json:"recursive_attacks"`
	RecSupports [][]int  `json:"recursive_supports"`
}

// ConversationStats summarises the message and knowledge parts of a
// conversation.
type ConversationStats struct {
	Partners    []string          `json:"partners"`
	Messages    MessageCounts     `json:"messages"`
	Information InformationCounts `json:"information"`
	Repetitions int               `json:"repetitions"`
	Links       LinkMatrix        `json:"links"`
}

func ComputeStats(conv *domain.Conversation) *ConversationStats {
	partners := conv.PartnerNames()
	st := &ConversationStats{
		Partners: partners,
		Messages: MessageCounts{
			Sent:        make(map[string]int),
			Received:    make(map[string]int),
			Interrupted: make(map[string]int),
		},
		Information: InformationCounts{
			Facts:        make(map[string]int),
			Instructions: make(map[string]int),
		},
	}

	for _, m := range conv.Author.Messages {
		switch m.Kind {
		case domain.MessageSend:
			st.Messages.Sent[m.Partner]++
		case domain.MessageReceive:
			st.Messages.Received[m.Partner]++
			if m.Interrupted {
				st.Messages.Interrupted[m.Partner]++
			}
			st.Repetitions += len(m.Repeats)
			for _, info := range m.Generates {
				st.Information.count(m.Partner, info)
			}
		}
	}
	for _, info := range conv.Author.PreKnowledge {
		st.Information.count(domain.AuthorName, info)
	}

	st.Links = buildLinkMatrix(partners, conv.AllInformation())
	return st
}

func (c InformationCounts) count(partner string, info *domain.Information) {
	if info.IsInstruction {
		c.Instructions[partner]++
	} else {
		c.Facts[partner]++
	}
}

func buildLinkMatrix(partners []string, infos []*domain.Information) LinkMatrix {
	dim := 2 * (len(partners) + 1)
	m := LinkMatrix{
		Headers:     make([]string, dim),
		Attacks:     squareMatrix(dim),
		Supports:    squareMatrix(dim),
		RecAttacks:  squareMatrix(dim),
		RecSupports: squareMatrix(dim),
	}
	for i, p := range partners {
		m.Headers[2*i] = p + " F"
		m.Headers[2*i+1] = p + " I"
	}
	m.Headers[dim-2] = domain.AuthorName + " F"
	m.Headers[dim-1] = domain.AuthorName + " I"

	partnerIndex := make(map[string]int, len(partners))
	for i, p := range partners {
		partnerIndex[p] = i
	}
	index := func(info *domain.Information) int {
		p := len(partners)
		if !info.IsPriorKnowledge() {
			if i, ok := partnerIndex[info.Source]; ok {
				p = i
			}
		}
		if info.IsInstruction {
			return 2*p + 1
		}
		return 2 * p
	}

	for _, info := range infos {
		row := index(info)
		for _, l := range info.Causes {
			var target *domain.Information
			attacks, supports := m.Attacks, m.Supports
			switch t := l.Target.(type) {
			case *domain.Information:
				target = t
			case *domain.InformationLink:
				target = t.FinalTarget()
				attacks, supports = m.RecAttacks, m.RecSupports
			}
			if target == nil {
				continue
			}
			col := index(target)
			switch {
			case l.Type.IsAttack():
				attacks[row][col]++
			case l.Type.IsSupport():
				supports[row][col]++
			}
		}
	}
	return m
}

func squareMatrix(n int) [][]int {
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	return m
}

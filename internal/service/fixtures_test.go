package service

import (
	"github.com/Harshitk-cp/keml-analysis/internal/domain"
)

// convBuilder assembles small conversations for tests.
type convBuilder struct {
	conv   *domain.Conversation
	timing int
	links  int
}

func newConv(partners ...string) *convBuilder {
	c := &domain.Conversation{Title: "test"}
	for _, p := range partners {
		c.Partners = append(c.Partners, domain.Partner{Name: p})
	}
	return &convBuilder{conv: c}
}

func (b *convBuilder) prior(key string) *domain.Information {
	info := domain.NewPriorKnowledge(key, key+" message", false)
	b.conv.Author.PreKnowledge = append(b.conv.Author.PreKnowledge, info)
	return info
}

func (b *convBuilder) send(partner string) *domain.Message {
	b.timing++
	m := &domain.Message{Kind: domain.MessageSend, Partner: partner, Timing: b.timing}
	b.conv.Author.Messages = append(b.conv.Author.Messages, m)
	return m
}

func (b *convBuilder) receive(partner string, keys ...string) (*domain.Message, []*domain.Information) {
	b.timing++
	m := &domain.Message{Kind: domain.MessageReceive, Partner: partner, Timing: b.timing}
	var infos []*domain.Information
	for _, k := range keys {
		info := domain.NewReceivedInformation(k, k+" message", false, b.timing, partner)
		m.Generates = append(m.Generates, info)
		infos = append(infos, info)
	}
	b.conv.Author.Messages = append(b.conv.Author.Messages, m)
	return m, infos
}

func (b *convBuilder) info(partner, key string) *domain.Information {
	_, infos := b.receive(partner, key)
	return infos[0]
}

func (b *convBuilder) repeat(m *domain.Message, info *domain.Information) {
	m.Repeats = append(m.Repeats, info)
	info.RepeatedBy = append(info.RepeatedBy, m)
}

func (b *convBuilder) link(source *domain.Information, target domain.Targetable, t domain.LinkType) *domain.InformationLink {
	b.links++
	return domain.Link(b.links, source, target, t)
}

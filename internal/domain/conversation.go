package domain

import (
	"github.com/google/uuid"
)

// AuthorName is the partner name attributed to prior knowledge.
const AuthorName = "Author"

// PriorKnowledgeTiming is the timing sentinel of prior knowledge.
const PriorKnowledgeTiming = -1

type Partner struct {
	Name string `json:"name"`
}

type MessageKind string

const (
	MessageSend    MessageKind = "send"
	MessageReceive MessageKind = "receive"
)

func ValidMessageKind(k string) bool {
	switch MessageKind(k) {
	case MessageSend, MessageReceive:
		return true
	}
	return false
}

// Message is one send or receive event on the author's lifeline.
// Only receive messages generate or repeat information.
type Message struct {
	Kind        MessageKind    `json:"kind"`
	Partner     string         `json:"partner"`
	Timing      int            `json:"timing"`
	Content     string         `json:"content"`
	Interrupted bool           `json:"interrupted,omitempty"`
	Generates   []*Information `json:"-"`
	Repeats     []*Information `json:"-"`
}

type Author struct {
	PreKnowledge []*Information
	Messages     []*Message
}

type Conversation struct {
	Title    string
	Partners []Partner
	Author   Author
}

// PartnerNames returns the partner names in declaration order.
func (c *Conversation) PartnerNames() []string {
	names := make([]string, len(c.Partners))
	for i, p := range c.Partners {
		names[i] = p.Name
	}
	return names
}

// Receives returns all receive messages in lifeline order.
func (c *Conversation) Receives() []*Message {
	var out []*Message
	for _, m := range c.Author.Messages {
		if m.Kind == MessageReceive {
			out = append(out, m)
		}
	}
	return out
}

// NewInformation returns the information generated by receive messages,
// in lifeline order.
func (c *Conversation) NewInformation() []*Information {
	var out []*Information
	for _, m := range c.Receives() {
		out = append(out, m.Generates...)
	}
	return out
}

// AllInformation returns prior knowledge followed by new information.
func (c *Conversation) AllInformation() []*Information {
	pre := c.Author.PreKnowledge
	out := make([]*Information, 0, len(pre))
	out = append(out, pre...)
	return append(out, c.NewInformation()...)
}

// InformationByID indexes every information node by its ID.
func (c *Conversation) InformationByID() map[uuid.UUID]*Information {
	all := c.AllInformation()
	out := make(map[uuid.UUID]*Information, len(all))
	for _, i := range all {
		out[i.ID] = i
	}
	return out
}

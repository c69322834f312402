// Package loader decodes conversation files into the domain graph.
package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrInvalidConversation = eris.New("invalid conversation")

// FormatFromPath picks the decoder by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", eris.Errorf("loader: unsupported file extension %q", filepath.Ext(path))
}

// Load reads and decodes a conversation file.
func Load(path string) (*domain.Conversation, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	conv, err := Decode(f, format)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: %s", path)
	}
	if conv.Title == "" {
		conv.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return conv, nil
}

// Decode parses a conversation in the given format and builds its graph.
func Decode(r io.Reader, format Format) (*domain.Conversation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "loader: read")
	}

	var file conversationFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, invalid("loader: parse json: %v", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && err != io.EOF {
			return nil, invalid("loader: parse yaml: %v", err)
		}
	default:
		return nil, eris.Errorf("loader: unsupported format %q", format)
	}

	return build(&file)
}

// Discover lists the conversation files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read dir %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatFromPath(e.Name()); err == nil {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func invalid(format string, args ...any) error {
	return eris.Wrapf(ErrInvalidConversation, format, args...)
}

type builder struct {
	conv     *domain.Conversation
	infos    map[string]*domain.Information
	partners map[string]bool
	linkDefs map[int]linkFile
	links    map[int]*domain.InformationLink
	resolve  map[int]bool
}

func build(file *conversationFile) (*domain.Conversation, error) {
	b := &builder{
		conv:     &domain.Conversation{Title: file.Title},
		infos:    make(map[string]*domain.Information),
		partners: make(map[string]bool),
		linkDefs: make(map[int]linkFile),
		links:    make(map[int]*domain.InformationLink),
		resolve:  make(map[int]bool),
	}

	for _, p := range file.Partners {
		if p == "" || p == domain.AuthorName {
			return nil, invalid("loader: invalid partner name %q", p)
		}
		if b.partners[p] {
			return nil, invalid("loader: duplicate partner %q", p)
		}
		b.partners[p] = true
		b.conv.Partners = append(b.conv.Partners, domain.Partner{Name: p})
	}

	for _, pk := range file.PreKnowledge {
		info := domain.NewPriorKnowledge(pk.ID, pk.Message, pk.IsInstruction)
		if err := b.register(info, pk); err != nil {
			return nil, err
		}
		b.conv.Author.PreKnowledge = append(b.conv.Author.PreKnowledge, info)
	}

	if err := b.messages(file.Messages); err != nil {
		return nil, err
	}
	if err := b.buildLinks(file.Links); err != nil {
		return nil, err
	}
	for _, p := range file.Premises {
		if err := b.premise(p); err != nil {
			return nil, err
		}
	}
	return b.conv, nil
}

func (b *builder) register(info *domain.Information, f infoFile) error {
	if f.ID == "" {
		return invalid("loader: information %q has no id", f.Message)
	}
	if _, dup := b.infos[f.ID]; dup {
		return invalid("loader: duplicate information id %q", f.ID)
	}
	info.FeltTrustImmediately = f.FeltTrustImmediately
	info.FeltTrustAfterwards = f.FeltTrustAfterwards
	b.infos[f.ID] = info
	return nil
}

func (b *builder) messages(msgs []messageFile) error {
	type pendingRepeat struct {
		msg  *domain.Message
		keys []string
	}
	var repeats []pendingRepeat

	for i, mf := range msgs {
		if !domain.ValidMessageKind(mf.Kind) {
			return invalid("loader: message %d has unknown kind %q", i, mf.Kind)
		}
		if !b.partners[mf.Partner] {
			return invalid("loader: message %d references unknown partner %q", i, mf.Partner)
		}
		timing := i + 1
		if mf.Timing != nil {
			timing = *mf.Timing
		}
		m := &domain.Message{
			Kind:        domain.MessageKind(mf.Kind),
			Partner:     mf.Partner,
			Timing:      timing,
			Content:     mf.Content,
			Interrupted: mf.Interrupted,
		}
		if m.Kind == domain.MessageSend && (len(mf.Generates) > 0 || len(mf.Repeats) > 0 || mf.Interrupted) {
			return invalid("loader: send message %d cannot generate, repeat or be interrupted", i)
		}
		for _, g := range mf.Generates {
			info := domain.NewReceivedInformation(g.ID, g.Message, g.IsInstruction, timing, mf.Partner)
			if err := b.register(info, g); err != nil {
				return err
			}
			m.Generates = append(m.Generates, info)
		}
		if len(mf.Repeats) > 0 {
			repeats = append(repeats, pendingRepeat{msg: m, keys: mf.Repeats})
		}
		b.conv.Author.Messages = append(b.conv.Author.Messages, m)
	}

	for _, r := range repeats {
		for _, key := range r.keys {
			info, ok := b.infos[key]
			if !ok {
				return invalid("loader: message at %d repeats unknown information %q", r.msg.Timing, key)
			}
			r.msg.Repeats = append(r.msg.Repeats, info)
			info.RepeatedBy = append(info.RepeatedBy, r.msg)
		}
	}
	return nil
}

func (b *builder) buildLinks(defs []linkFile) error {
	for _, l := range defs {
		if _, dup := b.linkDefs[l.ID]; dup {
			return invalid("loader: duplicate link id %d", l.ID)
		}
		b.linkDefs[l.ID] = l
	}
	for _, l := range defs {
		if _, err := b.link(l.ID); err != nil {
			return err
		}
	}
	return nil
}

// link creates link id after the link it targets, if any.
func (b *builder) link(id int) (*domain.InformationLink, error) {
	if l, ok := b.links[id]; ok {
		return l, nil
	}
	def, ok := b.linkDefs[id]
	if !ok {
		return nil, invalid("loader: unknown link %d", id)
	}
	if b.resolve[id] {
		return nil, invalid("loader: link %d targets itself through a chain of links", id)
	}
	b.resolve[id] = true
	defer delete(b.resolve, id)

	if !domain.ValidLinkType(def.Type) {
		return nil, invalid("loader: link %d has unknown type %q", id, def.Type)
	}
	source, ok := b.infos[def.Source]
	if !ok {
		return nil, invalid("loader: link %d has unknown source %q", id, def.Source)
	}

	var target domain.Targetable
	switch {
	case def.Target != "" && def.TargetLink != nil:
		return nil, invalid("loader: link %d sets both target and target_link", id)
	case def.Target != "":
		info, ok := b.infos[def.Target]
		if !ok {
			return nil, invalid("loader: link %d has unknown target %q", id, def.Target)
		}
		target = info
	case def.TargetLink != nil:
		l, err := b.link(*def.TargetLink)
		if err != nil {
			return nil, err
		}
		target = l
	default:
		return nil, invalid("loader: link %d has no target", id)
	}

	l := domain.Link(id, source, target, domain.LinkType(def.Type))
	b.links[id] = l
	return l, nil
}

func (b *builder) literal(key string, negated bool) (*domain.Literal, error) {
	info, ok := b.infos[key]
	if !ok {
		return nil, invalid("loader: unknown information %q", key)
	}
	if negated {
		return info.Negative(), nil
	}
	return info.Positive(), nil
}

func (b *builder) premise(p premiseFile) error {
	claim, err := b.literal(p.Claim, p.Negated)
	if err != nil {
		return eris.Wrap(err, "loader: premise claim")
	}
	expr, err := b.expression(p.Premise)
	if err != nil {
		return eris.Wrapf(err, "loader: premise of %q", p.Claim)
	}
	claim.AddPremise(expr)
	return nil
}

func (b *builder) expression(e exprFile) (domain.LogicExpression, error) {
	forms := 0
	if e.Ref != "" {
		forms++
	}
	if len(e.And) > 0 {
		forms++
	}
	if len(e.Or) > 0 {
		forms++
	}
	if forms != 1 {
		return nil, invalid("loader: expression must set exactly one of ref, and, or")
	}
	if e.Negated && e.Ref == "" {
		return nil, invalid("loader: only a ref expression can be negated")
	}

	if e.Ref != "" {
		return b.literal(e.Ref, e.Negated)
	}
	content := e.And
	if len(e.Or) > 0 {
		content = e.Or
	}
	j := &domain.Junction{Disjunction: len(e.Or) > 0}
	for _, c := range content {
		expr, err := b.expression(c)
		if err != nil {
			return nil, err
		}
		j.Content = append(j.Content, expr)
	}
	return j, nil
}

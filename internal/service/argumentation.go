package service

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"go.uber.org/zap"
)

// Symbols names every literal L<n> or ¬L<n>, n being the position of its
// information in the analysed order.
type Symbols map[*domain.Literal]string

func NewSymbols(infos []*domain.Information) Symbols {
	s := make(Symbols, 2*len(infos))
	for n, info := range infos {
		s[info.Positive()] = fmt.Sprintf("L%d", n)
		s[info.Negative()] = fmt.Sprintf("¬L%d", n)
	}
	return s
}

// Expression renders a premise expression. Junctions are parenthesised and
// joined by && or ||.
func (s Symbols) Expression(e domain.LogicExpression) string {
	switch v := e.(type) {
	case *domain.Literal:
		return s[v]
	case *domain.Junction:
		op := " && "
		if v.Disjunction {
			op = " || "
		}
		parts := make([]string, len(v.Content))
		for i, c := range v.Content {
			parts[i] = s.Expression(c)
		}
		return "(" + strings.Join(parts, op) + ")"
	}
	return "?"
}

// Argument renders a as <{premise => claim, ...}, claim>. An axiom renders
// its premise without the implication.
func (s Symbols) Argument(a *domain.LogicArgument) string {
	claim := s[a.Claim]
	premises := make([]string, len(a.Premises))
	for i, p := range a.Premises {
		premises[i] = s.Expression(p)
		if l, ok := p.(*domain.Literal); !ok || l != a.Claim {
			premises[i] += " => " + claim
		}
	}
	return "<{" + strings.Join(premises, ", ") + "}, " + claim + ">"
}

// Arguments renders a list of arguments as [a1 a2 ...].
func (s Symbols) Arguments(args []*domain.LogicArgument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = s.Argument(a)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Tree renders an undercut tree, one argument per line, children indented
// below their parent. The graph must have been validated.
func (s Symbols) Tree(t ArgumentTree) string {
	var b strings.Builder
	s.writeTree(&b, t, "")
	return strings.TrimSpace(b.String())
}

func (s Symbols) writeTree(b *strings.Builder, t ArgumentTree, prefix string) {
	b.WriteString(prefix)
	b.WriteString("└── ")
	b.WriteString(s.Argument(t.Root()))
	b.WriteString("\n")
	for _, c := range t.Children() {
		s.writeTree(b, c, prefix+"    ")
	}
}

// ScoreFamily holds the categorizer values of both literals of one
// information and their accumulation.
type ScoreFamily struct {
	Plus  []float64 `json:"plus"`
	Minus []float64 `json:"minus"`
	Score float64   `json:"score"`
}

func newScoreFamily(plus, minus []float64) ScoreFamily {
	return ScoreFamily{Plus: plus, Minus: minus, Score: LogAccumulator(plus, minus)}
}

// InformationScores is the argumentation outcome of one information.
type InformationScores struct {
	Info      *domain.Information `json:"-"`
	Symbol    string              `json:"symbol"`
	PlusArgs  int                 `json:"plus_arguments"`
	MinusArgs int                 `json:"minus_arguments"`
	Undercuts ScoreFamily         `json:"undercuts"`
	Rebuttals ScoreFamily         `json:"rebuttals"`
}

// ArgumentationReport is the result of one argumentation analysis.
type ArgumentationReport struct {
	Infos     []*domain.Information
	Symbols   Symbols
	Arguments *ArgumentSet
	Rebuttals Rebuttals
	Undercuts *UndercutGraph
	Scores    []InformationScores
}

type ArgumentationService struct {
	logger *zap.Logger
}

func NewArgumentationService(logger *zap.Logger) *ArgumentationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArgumentationService{logger: logger}
}

// Analyze derives logic arguments, undercuts and rebuttals of conv and
// scores every information with both families. A cyclic undercut relation
// fails the analysis with a *CyclicArgumentError.
func (s *ArgumentationService) Analyze(conv *domain.Conversation) (*ArgumentationReport, error) {
	infos := conv.AllInformation()
	args := BuildLogicArguments(infos)
	undercuts := BuildUndercutTrees(args)
	if err := undercuts.Validate(); err != nil {
		s.logger.Error("cyclic undercut relation",
			zap.String("conversation", conv.Title),
			zap.Error(err))
		return nil, err
	}

	report := &ArgumentationReport{
		Infos:     infos,
		Symbols:   NewSymbols(infos),
		Arguments: args,
		Rebuttals: BuildRebuttals(args),
		Undercuts: undercuts,
		Scores:    make([]InformationScores, 0, len(infos)),
	}

	for _, info := range infos {
		plus, err := s.categorize(undercuts, args.For(info.Positive()))
		if err != nil {
			return nil, err
		}
		minus, err := s.categorize(undercuts, args.For(info.Negative()))
		if err != nil {
			return nil, err
		}

		report.Scores = append(report.Scores, InformationScores{
			Info:      info,
			Symbol:    report.Symbols[info.Positive()],
			PlusArgs:  len(args.For(info.Positive())),
			MinusArgs: len(args.For(info.Negative())),
			Undercuts: newScoreFamily(plus, minus),
			Rebuttals: newScoreFamily(
				[]float64{FlatTreeHCategorizer(len(report.Rebuttals[info.Positive()]))},
				[]float64{FlatTreeHCategorizer(len(report.Rebuttals[info.Negative()]))},
			),
		})
	}

	s.logger.Info("argumentation analysed",
		zap.String("conversation", conv.Title),
		zap.Int("information", len(infos)),
		zap.Int("arguments", args.Len()))
	return report, nil
}

func (s *ArgumentationService) categorize(g *UndercutGraph, args []*domain.LogicArgument) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		t, ok := g.Tree(a)
		if !ok {
			continue
		}
		v, err := HCategorizer(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

package loader

// conversationFile is the serialized form of a conversation, shared by the
// JSON and YAML decoders.
type conversationFile struct {
	Title        string        `json:"title" yaml:"title"`
	Partners     []string      `json:"partners" yaml:"partners"`
	PreKnowledge []infoFile    `json:"pre_knowledge" yaml:"pre_knowledge"`
	Messages     []messageFile `json:"messages" yaml:"messages"`
	Links        []linkFile    `json:"links" yaml:"links"`
	Premises     []premiseFile `json:"premises" yaml:"premises"`
}

type infoFile struct {
	ID                   string   `json:"id" yaml:"id"`
	Message              string   `json:"message" yaml:"message"`
	IsInstruction        bool     `json:"is_instruction" yaml:"is_instruction"`
	FeltTrustImmediately *float64 `json:"felt_trust_immediately,omitempty" yaml:"felt_trust_immediately,omitempty"`
	FeltTrustAfterwards  *float64 `json:"felt_trust_afterwards,omitempty" yaml:"felt_trust_afterwards,omitempty"`
}

type messageFile struct {
	Kind        string     `json:"kind" yaml:"kind"`
	Partner     string     `json:"partner" yaml:"partner"`
	Timing      *int       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Content     string     `json:"content" yaml:"content"`
	Interrupted bool       `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
	Generates   []infoFile `json:"generates,omitempty" yaml:"generates,omitempty"`
	Repeats     []string   `json:"repeats,omitempty" yaml:"repeats,omitempty"`
}

// linkFile targets either an information key or another link id.
type linkFile struct {
	ID         int    `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Target     string `json:"target,omitempty" yaml:"target,omitempty"`
	TargetLink *int   `json:"target_link,omitempty" yaml:"target_link,omitempty"`
	Type       string `json:"type" yaml:"type"`
}

type premiseFile struct {
	Claim   string   `json:"claim" yaml:"claim"`
	Negated bool     `json:"negated,omitempty" yaml:"negated,omitempty"`
	Premise exprFile `json:"premise" yaml:"premise"`
}

// exprFile is a literal reference or a conjunction or disjunction of
// nested expressions. Exactly one form must be set and only a ref may be
// negated.
type exprFile struct {
	Ref     string     `json:"ref,omitempty" yaml:"ref,omitempty"`
	Negated bool       `json:"negated,omitempty" yaml:"negated,omitempty"`
	And     []exprFile `json:"and,omitempty" yaml:"and,omitempty"`
	Or      []exprFile `json:"or,omitempty" yaml:"or,omitempty"`
}

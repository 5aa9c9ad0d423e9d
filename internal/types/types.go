package types

// Field definitions ----------------------------------------------------------

// FieldType enumerates the input kinds the form designer can pick.
type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldSelect  FieldType = "select"
	FieldDate    FieldType = "date"
)

// FieldOption is one choice of a select field. Value is the stored token,
// Label the display text.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition is the designer-facing description of one form field.
// It is an input to schema generation and is not persisted itself.
type FieldDefinition struct {
	Name     string        `json:"name"`
	Type     FieldType     `json:"type"`
	Required bool          `json:"required"`
	Options  []FieldOption `json:"options,omitempty"`
}

// Form schema ----------------------------------------------------------------

// PropertySpec describes one property of a generated form schema.
type PropertySpec struct {
	Title     string   `json:"title"`
	Type      string   `json:"type"` // "string" | "number" | "boolean"
	Enum      []string `json:"enum,omitempty"`
	EnumNames []string `json:"enumNames,omitempty"`
	Format    string   `json:"format,omitempty"` // "date" for date fields
}

// FormSchema is the normalized record schema a project's alternatives must
// conform to. Property keys are derived from field names; Required lists the
// keys that must be present in a submission.
type FormSchema struct {
	Type       string                  `json:"type"` // always "object"
	Properties map[string]PropertySpec `json:"properties"`
	Required   []string                `json:"required"`
}

// HasProperties reports whether the schema defines at least one property.
func (s FormSchema) HasProperties() bool { return len(s.Properties) > 0 }

// Criteria -------------------------------------------------------------------

// CriterionKind separates binary gates from weighted attributes.
type CriterionKind string

const (
	MustHave CriterionKind = "must_have"
	Want     CriterionKind = "want"
)

const (
	// MinWeight and MaxWeight bound a want criterion's weight.
	MinWeight = 1
	MaxWeight = 10
	// MaxWantScore bounds a per-criterion want score (scale 0..MaxWantScore).
	MaxWantScore = 5
)

// Criterion is a single evaluation criterion. Weight is meaningful only for
// kind "want"; must-have criteria are pass/fail gates.
type Criterion struct {
	ID          string        `json:"id"`
	Kind        CriterionKind `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Weight      int           `json:"weight,omitempty"`
}

// CriteriaSet groups a project's criteria the way the backend serves them.
type CriteriaSet struct {
	MustHave []Criterion `json:"must_have"`
	Want     []Criterion `json:"want"`
}

// Empty reports whether the set contains no criteria at all.
func (c CriteriaSet) Empty() bool { return len(c.MustHave) == 0 && len(c.Want) == 0 }

// FindWant returns the want criterion with the given id.
func (c CriteriaSet) FindWant(id string) (Criterion, bool) {
	for _, w := range c.Want {
		if w.ID == id {
			return w, true
		}
	}
	return Criterion{}, false
}

// Evaluations ----------------------------------------------------------------

// Evaluation carries per-criterion results keyed by criterion id: boolean
// pass/fail for must-have gates, integer 0..5 scores for want criteria.
// This is also the shape of AI score predictions. Entries for ids that no
// longer (or do not yet) match a criterion are kept and simply unused.
type Evaluation struct {
	MustHaveResults map[string]bool `json:"must_have_results"`
	WantScores      map[string]int  `json:"want_scores"`
}

// Clone returns a deep copy so merges never alias the receiver's maps.
func (e Evaluation) Clone() Evaluation {
	out := Evaluation{}
	if e.MustHaveResults != nil {
		out.MustHaveResults = make(map[string]bool, len(e.MustHaveResults))
		for k, v := range e.MustHaveResults {
			out.MustHaveResults[k] = v
		}
	}
	if e.WantScores != nil {
		out.WantScores = make(map[string]int, len(e.WantScores))
		for k, v := range e.WantScores {
			out.WantScores[k] = v
		}
	}
	return out
}

// Alternatives ---------------------------------------------------------------

// AlternativeRecord is one evaluated alternative. Data conforms to the form
// schema in force when the record was created. Disqualified and TotalScore
// are derived by the scoring engine and never trusted from input.
type AlternativeRecord struct {
	ID           string         `json:"id"`
	Data         map[string]any `json:"data"`
	Evaluation   Evaluation     `json:"evaluation"`
	Disqualified bool           `json:"disqualified"`
	TotalScore   float64        `json:"score"`
}

// Projects -------------------------------------------------------------------

// Project owns its form schema, criteria and alternatives exclusively.
type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Criteria    *CriteriaSet `json:"criteria,omitempty"`
	FormSchema  *FormSchema  `json:"form_schema,omitempty"`
}

// SetupComplete reports whether the project has both criteria and a form
// schema, i.e. whether alternatives can be evaluated.
func (p Project) SetupComplete() bool {
	return p.Criteria != nil && !p.Criteria.Empty() && p.FormSchema != nil && p.FormSchema.HasProperties()
}

// AI suggestion shapes -------------------------------------------------------

// CriterionSuggestion is one AI-proposed criterion before acceptance; ids are
// assigned only when the user accepts a suggestion.
type CriterionSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Weight      int    `json:"weight,omitempty"`
}

// CriteriaSuggestion is the full response of criteria generation from a
// free-text decision goal.
type CriteriaSuggestion struct {
	MustHave []CriterionSuggestion `json:"must_have"`
	Want     []CriterionSuggestion `json:"want"`
}

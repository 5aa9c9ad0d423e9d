// Package decision orchestrates the project workflow over the local
// workspace: define criteria, build the input form, submit and score
// alternatives, and rank them. It owns the read-modify-write discipline on
// alternative records; the schema and scoring packages stay pure.
package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"decana/internal/ident"
	"decana/internal/schema"
	"decana/internal/scoring"
	"decana/internal/store"
	"decana/internal/suggest"
	"decana/internal/types"
)

var (
	ErrProjectNotFound     = errors.New("decision: project not found")
	ErrAlternativeNotFound = errors.New("decision: alternative not found")
	ErrCriterionNotFound   = errors.New("decision: criterion not found")
	ErrSetupIncomplete     = errors.New("decision: define criteria and an input form first")

	// ErrSchemaLocked guards schema immutability: once alternatives have
	// been scored against a schema, regenerating it would break their
	// shape guarantees.
	ErrSchemaLocked = errors.New("decision: form schema is locked by existing alternatives")

	ErrScoreOutOfRange  = fmt.Errorf("decision: want score must be between 0 and %d", types.MaxWantScore)
	ErrWeightOutOfRange = fmt.Errorf("decision: want weight must be between %d and %d", types.MinWeight, types.MaxWeight)
)

// Workflow drives one workspace. AI may be nil; suggestion-driven
// operations then return an error while manual flows keep working.
type Workflow struct {
	Store *store.Store
	AI    suggest.Service
	IDs   ident.Generator
}

func New(st *store.Store, ai suggest.Service, ids ident.Generator) *Workflow {
	if ids == nil {
		ids = ident.UUID{}
	}
	return &Workflow{Store: st, AI: ai, IDs: ids}
}

// Projects ------------------------------------------------------------------

func (w *Workflow) CreateProject(name, description string) (types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Project{}, fmt.Errorf("decision: project name is empty")
	}
	p := types.Project{
		ID:          w.IDs.NewID(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := w.Store.Put(store.ProjectState{Project: p}); err != nil {
		return types.Project{}, err
	}
	return p, nil
}

func (w *Workflow) GetProject(id string) (types.Project, error) {
	state, ok := w.Store.Get(id)
	if !ok {
		return types.Project{}, ErrProjectNotFound
	}
	return state.Project, nil
}

func (w *Workflow) ListProjects() []types.Project {
	states := w.Store.List()
	out := make([]types.Project, 0, len(states))
	for _, st := range states {
		out = append(out, st.Project)
	}
	return out
}

func (w *Workflow) DeleteProject(id string) error {
	return w.Store.Delete(id)
}

// Criteria ------------------------------------------------------------------

// SaveCriteria replaces a project's criteria. Criteria without ids get one
// assigned; want weights outside 1..10 are rejected.
func (w *Workflow) SaveCriteria(projectID string, set types.CriteriaSet) (types.CriteriaSet, error) {
	for i := range set.MustHave {
		set.MustHave[i].Kind = types.MustHave
		set.MustHave[i].Weight = 0
		if set.MustHave[i].ID == "" {
			set.MustHave[i].ID = w.IDs.NewID()
		}
	}
	for i := range set.Want {
		set.Want[i].Kind = types.Want
		if set.Want[i].Weight < types.MinWeight || set.Want[i].Weight > types.MaxWeight {
			return types.CriteriaSet{}, ErrWeightOutOfRange
		}
		if set.Want[i].ID == "" {
			set.Want[i].ID = w.IDs.NewID()
		}
	}

	state, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		st.Project.Criteria = &set
		rescoreAll(st)
	})
	if !ok {
		return types.CriteriaSet{}, ErrProjectNotFound
	}
	if err != nil {
		return types.CriteriaSet{}, err
	}
	return *state.Project.Criteria, nil
}

// SuggestCriteria asks the AI collaborator for criteria matching the
// project's goal. Nothing is stored until AcceptSuggestions.
func (w *Workflow) SuggestCriteria(ctx context.Context, projectID string) (types.CriteriaSuggestion, error) {
	if w.AI == nil {
		return types.CriteriaSuggestion{}, fmt.Errorf("decision: no AI provider configured")
	}
	project, err := w.GetProject(projectID)
	if err != nil {
		return types.CriteriaSuggestion{}, err
	}
	concept := project.Name
	if project.Description != "" {
		concept += ": " + project.Description
	}
	return w.AI.GenerateCriteria(ctx, concept)
}

// AcceptSuggestions appends accepted suggestions to the project's criteria,
// assigning identities at acceptance time.
func (w *Workflow) AcceptSuggestions(projectID string, s types.CriteriaSuggestion) (types.CriteriaSet, error) {
	state, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		set := types.CriteriaSet{}
		if st.Project.Criteria != nil {
			set = *st.Project.Criteria
		}
		for _, m := range s.MustHave {
			set.MustHave = append(set.MustHave, types.Criterion{
				ID:          w.IDs.NewID(),
				Kind:        types.MustHave,
				Name:        m.Name,
				Description: m.Description,
			})
		}
		for _, wc := range s.Want {
			weight := wc.Weight
			if weight < types.MinWeight {
				weight = types.MinWeight
			}
			if weight > types.MaxWeight {
				weight = types.MaxWeight
			}
			set.Want = append(set.Want, types.Criterion{
				ID:          w.IDs.NewID(),
				Kind:        types.Want,
				Name:        wc.Name,
				Description: wc.Description,
				Weight:      weight,
			})
		}
		st.Project.Criteria = &set
		rescoreAll(st)
	})
	if !ok {
		return types.CriteriaSet{}, ErrProjectNotFound
	}
	if err != nil {
		return types.CriteriaSet{}, err
	}
	return *state.Project.Criteria, nil
}

// UpdateCriterion edits name, description or weight; identity and kind are
// immutable once created.
func (w *Workflow) UpdateCriterion(projectID string, c types.Criterion) error {
	if c.Kind == types.Want && (c.Weight < types.MinWeight || c.Weight > types.MaxWeight) {
		return ErrWeightOutOfRange
	}
	found := false
	_, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		if st.Project.Criteria == nil {
			return
		}
		for i := range st.Project.Criteria.MustHave {
			if st.Project.Criteria.MustHave[i].ID == c.ID {
				st.Project.Criteria.MustHave[i].Name = c.Name
				st.Project.Criteria.MustHave[i].Description = c.Description
				found = true
				return
			}
		}
		for i := range st.Project.Criteria.Want {
			if st.Project.Criteria.Want[i].ID == c.ID {
				st.Project.Criteria.Want[i].Name = c.Name
				st.Project.Criteria.Want[i].Description = c.Description
				st.Project.Criteria.Want[i].Weight = c.Weight
				found = true
				rescoreAll(st)
				return
			}
		}
	})
	if !ok {
		return ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	if !found {
		return ErrCriterionNotFound
	}
	return nil
}

// DeleteCriterion removes a criterion from future scoring. Score entries
// alternatives already hold for it become orphans: kept, ignored.
func (w *Workflow) DeleteCriterion(projectID, criterionID string) error {
	found := false
	_, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		if st.Project.Criteria == nil {
			return
		}
		st.Project.Criteria.MustHave, found = removeCriterion(st.Project.Criteria.MustHave, criterionID)
		if !found {
			st.Project.Criteria.Want, found = removeCriterion(st.Project.Criteria.Want, criterionID)
		}
		if found {
			rescoreAll(st)
		}
	})
	if !ok {
		return ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	if !found {
		return ErrCriterionNotFound
	}
	return nil
}

// Form schema ---------------------------------------------------------------

// SaveFormSchema validates the field list, generates the schema and stores
// it. The schema is locked once the project has evaluated alternatives.
func (w *Workflow) SaveFormSchema(projectID string, fields []types.FieldDefinition) (types.FormSchema, error) {
	if err := schema.CheckFields(fields); err != nil {
		return types.FormSchema{}, err
	}
	generated := schema.GenerateSchema(fields)

	var locked bool
	state, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		if len(st.Alternatives) > 0 {
			locked = true
			return
		}
		st.Project.FormSchema = &generated
	})
	if !ok {
		return types.FormSchema{}, ErrProjectNotFound
	}
	if locked {
		return types.FormSchema{}, ErrSchemaLocked
	}
	if err != nil {
		return types.FormSchema{}, err
	}
	return *state.Project.FormSchema, nil
}

// Alternatives --------------------------------------------------------------

// SubmitAlternative validates raw form data against the project's schema,
// has the AI collaborator evaluate it, recomputes the derived outcome and
// persists the record. The AI's evaluation is input, never the verdict.
func (w *Workflow) SubmitAlternative(ctx context.Context, projectID string, data map[string]any) (types.AlternativeRecord, error) {
	project, err := w.GetProject(projectID)
	if err != nil {
		return types.AlternativeRecord{}, err
	}
	if !project.SetupComplete() {
		return types.AlternativeRecord{}, ErrSetupIncomplete
	}

	result := schema.Validate(*project.FormSchema, data)
	if err := result.Err(); err != nil {
		return types.AlternativeRecord{}, err
	}
	normalized := schema.AnyMap(result.Data)

	var eval types.Evaluation
	if w.AI != nil {
		eval, err = w.AI.EvaluateAlternative(ctx, normalized, *project.Criteria)
		if err != nil {
			return types.AlternativeRecord{}, err
		}
	}

	alt := types.AlternativeRecord{
		ID:         w.IDs.NewID(),
		Data:       normalized,
		Evaluation: eval,
	}
	scoring.Rescore(&alt, *project.Criteria)

	_, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		st.Alternatives = append(st.Alternatives, alt)
	})
	if !ok {
		return types.AlternativeRecord{}, ErrProjectNotFound
	}
	if err != nil {
		return types.AlternativeRecord{}, err
	}
	return alt, nil
}

// RefreshNewCriteria predicts results for criteria that were added after
// alternatives were evaluated, merges them into each record and rescores.
// Already-scored criteria keep their entries.
func (w *Workflow) RefreshNewCriteria(ctx context.Context, projectID string) ([]types.AlternativeRecord, error) {
	if w.AI == nil {
		return nil, fmt.Errorf("decision: no AI provider configured")
	}
	state, ok := w.Store.Get(projectID)
	if !ok {
		return nil, ErrProjectNotFound
	}
	if state.Project.Criteria == nil || len(state.Alternatives) == 0 {
		return state.Alternatives, nil
	}
	criteria := *state.Project.Criteria

	merged := make([]types.AlternativeRecord, len(state.Alternatives))
	for i, alt := range state.Alternatives {
		missing := missingCriteria(criteria, alt.Evaluation)
		if missing.Empty() {
			merged[i] = alt
			continue
		}
		predicted, err := w.AI.PredictScores(ctx, alt.Data, missing, alt.Evaluation)
		if err != nil {
			return nil, err
		}
		alt.Evaluation = scoring.MergePredictions(alt.Evaluation, predicted)
		scoring.Rescore(&alt, criteria)
		merged[i] = alt
	}

	_, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		st.Alternatives = merged
	})
	if !ok {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// SetMustHaveResult manually edits one must-have cell and rescores.
func (w *Workflow) SetMustHaveResult(projectID, altID, criterionID string, pass bool) error {
	return w.editEvaluation(projectID, altID, criterionID, func(criteria types.CriteriaSet, eval *types.Evaluation) error {
		if !hasCriterion(criteria.MustHave, criterionID) {
			return ErrCriterionNotFound
		}
		if eval.MustHaveResults == nil {
			eval.MustHaveResults = map[string]bool{}
		}
		eval.MustHaveResults[criterionID] = pass
		return nil
	})
}

// SetWantScore manually edits one want-score cell and rescores.
func (w *Workflow) SetWantScore(projectID, altID, criterionID string, score int) error {
	if score < 0 || score > types.MaxWantScore {
		return ErrScoreOutOfRange
	}
	return w.editEvaluation(projectID, altID, criterionID, func(criteria types.CriteriaSet, eval *types.Evaluation) error {
		if !hasCriterion(criteria.Want, criterionID) {
			return ErrCriterionNotFound
		}
		if eval.WantScores == nil {
			eval.WantScores = map[string]int{}
		}
		eval.WantScores[criterionID] = score
		return nil
	})
}

// Rankings returns the project's alternatives in display order.
func (w *Workflow) Rankings(projectID string) ([]types.AlternativeRecord, error) {
	alts, ok := w.Store.Results(projectID)
	if !ok {
		return nil, ErrProjectNotFound
	}
	return scoring.Rank(alts), nil
}

// helpers -------------------------------------------------------------------

func (w *Workflow) editEvaluation(projectID, altID, criterionID string, edit func(types.CriteriaSet, *types.Evaluation) error) error {
	var editErr error
	found := false
	_, ok, err := w.Store.Update(projectID, func(st *store.ProjectState) {
		if st.Project.Criteria == nil {
			editErr = ErrSetupIncomplete
			return
		}
		for i := range st.Alternatives {
			if st.Alternatives[i].ID != altID {
				continue
			}
			found = true
			if err := edit(*st.Project.Criteria, &st.Alternatives[i].Evaluation); err != nil {
				editErr = err
				return
			}
			scoring.Rescore(&st.Alternatives[i], *st.Project.Criteria)
			return
		}
	})
	if !ok {
		return ErrProjectNotFound
	}
	if editErr != nil {
		return editErr
	}
	if !found {
		return ErrAlternativeNotFound
	}
	return err
}

// missingCriteria returns the criteria an evaluation has no entry for.
func missingCriteria(criteria types.CriteriaSet, eval types.Evaluation) types.CriteriaSet {
	out := types.CriteriaSet{}
	for _, c := range criteria.MustHave {
		if _, ok := eval.MustHaveResults[c.ID]; !ok {
			out.MustHave = append(out.MustHave, c)
		}
	}
	for _, c := range criteria.Want {
		if _, ok := eval.WantScores[c.ID]; !ok {
			out.Want = append(out.Want, c)
		}
	}
	return out
}

func rescoreAll(st *store.ProjectState) {
	if st.Project.Criteria == nil {
		return
	}
	for i := range st.Alternatives {
		scoring.Rescore(&st.Alternatives[i], *st.Project.Criteria)
	}
}

func removeCriterion(list []types.Criterion, id string) ([]types.Criterion, bool) {
	for i, c := range list {
		if c.ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func hasCriterion(list []types.Criterion, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"decana/internal/types"
)

// ListProjects returns all projects visible to the current session.
func (c *Client) ListProjects(ctx context.Context) ([]types.Project, error) {
	var out []types.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches one project, including its criteria and form schema.
func (c *Client) GetProject(ctx context.Context, id string) (types.Project, error) {
	var out types.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return types.Project{}, err
	}
	return out, nil
}

type createProjectReq struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateProject creates a project from a title and description.
func (c *Client) CreateProject(ctx context.Context, title, description string) (types.Project, error) {
	var out types.Project
	err := c.do(ctx, http.MethodPost, "/projects", createProjectReq{Title: title, Description: description}, &out)
	if err != nil {
		return types.Project{}, err
	}
	return out, nil
}

// UpdateProject replaces a project's mutable attributes.
func (c *Client) UpdateProject(ctx context.Context, id string, p types.Project) (types.Project, error) {
	var out types.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), p, &out); err != nil {
		return types.Project{}, err
	}
	return out, nil
}

// DeleteProject removes a project and everything it owns.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil)
}

type saveSchemaReq struct {
	Schema types.FormSchema `json:"schema"`
}

// SaveFormSchema stores the generated form schema on the project.
func (c *Client) SaveFormSchema(ctx context.Context, projectID string, schema types.FormSchema) error {
	return c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/form-schema", saveSchemaReq{Schema: schema}, nil)
}

// ListResults returns the project's evaluated alternatives.
func (c *Client) ListResults(ctx context.Context, projectID string) ([]types.AlternativeRecord, error) {
	var out []types.AlternativeRecord
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/results", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type evaluateReq struct {
	Alternative map[string]any   `json:"alternative"`
	Evaluation  types.Evaluation `json:"evaluation"`
}

// SubmitEvaluation stores a new alternative together with its evaluation and
// returns the persisted record.
func (c *Client) SubmitEvaluation(ctx context.Context, projectID string, alternative map[string]any, eval types.Evaluation) (types.AlternativeRecord, error) {
	var out types.AlternativeRecord
	err := c.do(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/evaluate",
		evaluateReq{Alternative: alternative, Evaluation: eval}, &out)
	if err != nil {
		return types.AlternativeRecord{}, err
	}
	return out, nil
}

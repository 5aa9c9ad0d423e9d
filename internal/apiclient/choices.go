package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Choice is a raw decision alternative as the backend's choices resource
// stores it, before any evaluation.
type Choice struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
}

// ListChoices returns a project's raw choices.
func (c *Client) ListChoices(ctx context.Context, projectID string) ([]Choice, error) {
	var out []Choice
	err := c.do(ctx, http.MethodGet, "/choices?projectId="+url.QueryEscape(projectID), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type createChoicesReq struct {
	ProjectID string   `json:"project_id"`
	Choices   []Choice `json:"choices"`
}

// CreateChoices stores a batch of choices on a project.
func (c *Client) CreateChoices(ctx context.Context, projectID string, choices []Choice) ([]Choice, error) {
	var out []Choice
	err := c.do(ctx, http.MethodPost, "/choices", createChoicesReq{ProjectID: projectID, Choices: choices}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateChoice edits one choice.
func (c *Client) UpdateChoice(ctx context.Context, id string, choice Choice) (Choice, error) {
	var out Choice
	if err := c.do(ctx, http.MethodPut, "/choices/"+url.PathEscape(id), choice, &out); err != nil {
		return Choice{}, err
	}
	return out, nil
}

// DeleteChoice removes one choice.
func (c *Client) DeleteChoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/choices/"+url.PathEscape(id), nil, nil)
}

type updateScoreReq struct {
	CriteriaID string `json:"criteria_id"`
	ChoiceID   string `json:"choice_id"`
	Score      int    `json:"score"`
}

// UpdateScore edits one score cell. The caller refetches results afterwards;
// the backend recomputes derived fields, never this client.
func (c *Client) UpdateScore(ctx context.Context, criteriaID, choiceID string, score int) error {
	return c.do(ctx, http.MethodPut, "/scores", updateScoreReq{
		CriteriaID: criteriaID,
		ChoiceID:   choiceID,
		Score:      score,
	}, nil)
}

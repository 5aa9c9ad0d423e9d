package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"decana/internal/types"
)

// ListCriteria returns a project's criteria.
func (c *Client) ListCriteria(ctx context.Context, projectID string) (types.CriteriaSet, error) {
	var out types.CriteriaSet
	err := c.do(ctx, http.MethodGet, "/criteria?projectId="+url.QueryEscape(projectID), nil, &out)
	if err != nil {
		return types.CriteriaSet{}, err
	}
	return out, nil
}

type createCriteriaReq struct {
	ProjectID string            `json:"project_id"`
	Criteria  types.CriteriaSet `json:"criteria"`
}

// CreateCriteria stores a batch of criteria on a project.
func (c *Client) CreateCriteria(ctx context.Context, projectID string, criteria types.CriteriaSet) (types.CriteriaSet, error) {
	var out types.CriteriaSet
	err := c.do(ctx, http.MethodPost, "/criteria", createCriteriaReq{ProjectID: projectID, Criteria: criteria}, &out)
	if err != nil {
		return types.CriteriaSet{}, err
	}
	return out, nil
}

// UpdateCriterion edits a criterion's name, description or weight. Identity
// is immutable once created.
func (c *Client) UpdateCriterion(ctx context.Context, id string, criterion types.Criterion) (types.Criterion, error) {
	var out types.Criterion
	if err := c.do(ctx, http.MethodPut, "/criteria/"+url.PathEscape(id), criterion, &out); err != nil {
		return types.Criterion{}, err
	}
	return out, nil
}

// DeleteCriterion removes a criterion from future scoring. Per-alternative
// score entries for it are left behind and simply ignored.
func (c *Client) DeleteCriterion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/criteria/"+url.PathEscape(id), nil, nil)
}

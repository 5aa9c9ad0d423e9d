package store

import (
	"strings"

	"decana/internal/types"
)

// ProjectState is everything the workspace keeps for one project.
type ProjectState struct {
	Project      types.Project             `json:"project"`
	Alternatives []types.AlternativeRecord `json:"alternatives,omitempty"`
}

func normalizeState(state ProjectState) ProjectState {
	state.Project.ID = strings.TrimSpace(state.Project.ID)
	state.Project.Name = strings.TrimSpace(state.Project.Name)
	if state.Project.Name == "" {
		state.Project.Name = "Project"
	}
	return state
}

// Package selection holds the state of a bundle being picked for a deal:
// which tier is shown, the quantities the user edited, and where the
// submission stands. State is a value; every change goes through Reduce.
package selection

import (
	"github.com/GTDGit/cpq_api/internal/models"
	"github.com/GTDGit/cpq_api/internal/service"
)

// Phase is the lifecycle step of a selection.
type Phase string

const (
	PhaseLoading       Phase = "loading"
	PhaseNotConfigured Phase = "not_configured"
	PhaseReady         Phase = "ready"
	PhaseSaving        Phase = "saving"
	PhaseFailed        Phase = "failed"
)

// State is an immutable snapshot of a selection.
type State struct {
	Phase Phase                `json:"phase"`
	Tier  models.Tier          `json:"tier"`
	Items []models.CatalogItem `json:"items"`
	Err   string               `json:"error,omitempty"`
}

// Initial returns the state a selection starts in.
func Initial() State {
	return State{Phase: PhaseLoading, Tier: models.TierStandard}
}

// Bundle returns the items of the selected tier and their total.
func (s State) Bundle() models.TierBundle {
	return service.BundleForTier(s.Items, s.Tier)
}

// CanSubmit reports whether the selected bundle can be sent to a deal.
func (s State) CanSubmit() bool {
	return s.Phase == PhaseReady && len(s.Bundle().Items) > 0
}

package selection

import (
	"github.com/GTDGit/cpq_api/internal/models"
)

// Event is something that happened to a selection.
type Event interface {
	isEvent()
}

// ConfigChecked carries the result of the portal configuration check.
type ConfigChecked struct{ Configured bool }

// Provisioned means the portal setup finished and the catalog must be reloaded.
type Provisioned struct{}

// LoadSucceeded carries the freshly fetched catalog.
type LoadSucceeded struct{ Items []models.CatalogItem }

// LoadFailed means the configuration check or the catalog fetch failed.
type LoadFailed struct{ Err string }

// TierSelected switches the tier on display.
type TierSelected struct{ Tier models.Tier }

// QuantityChanged edits the selected quantity of one product.
type QuantityChanged struct {
	ProductID string
	Quantity  int64
}

// SubmitStarted means the bundle is being attached to the deal.
type SubmitStarted struct{}

// SubmitSucceeded means every line item was created and the deal updated.
type SubmitSucceeded struct{}

// SubmitFailed means the submission did not complete. The error is kept on
// the state until the next submit.
type SubmitFailed struct{ Err string }

func (ConfigChecked) isEvent()   {}
func (Provisioned) isEvent()     {}
func (LoadSucceeded) isEvent()   {}
func (LoadFailed) isEvent()      {}
func (TierSelected) isEvent()    {}
func (QuantityChanged) isEvent() {}
func (SubmitStarted) isEvent()   {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}

// Reduce returns the state that follows s after e. Events that do not apply
// to the current phase leave the state unchanged. s is never mutated.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case ConfigChecked:
		if s.Phase != PhaseLoading {
			return s
		}
		if !ev.Configured {
			s.Phase = PhaseNotConfigured
		}
		return s

	case Provisioned:
		if s.Phase != PhaseNotConfigured {
			return s
		}
		s.Phase = PhaseLoading
		return s

	case LoadSucceeded:
		// a reload recovers a failed load
		if s.Phase != PhaseLoading && s.Phase != PhaseFailed {
			return s
		}
		s.Phase = PhaseReady
		s.Items = append([]models.CatalogItem(nil), ev.Items...)
		s.Err = ""
		return s

	case LoadFailed:
		if s.Phase != PhaseLoading && s.Phase != PhaseNotConfigured {
			return s
		}
		s.Phase = PhaseFailed
		s.Err = ev.Err
		return s

	case TierSelected:
		if s.Phase != PhaseReady || !ev.Tier.Valid() {
			return s
		}
		s.Tier = ev.Tier
		return s

	case QuantityChanged:
		if s.Phase != PhaseReady {
			return s
		}
		items := make([]models.CatalogItem, len(s.Items))
		for i, it := range s.Items {
			if it.ID == ev.ProductID {
				it = it.WithQuantity(ev.Quantity)
			}
			items[i] = it
		}
		s.Items = items
		return s

	case SubmitStarted:
		if !s.CanSubmit() {
			return s
		}
		s.Phase = PhaseSaving
		s.Err = ""
		return s

	case SubmitSucceeded:
		if s.Phase != PhaseSaving {
			return s
		}
		s.Phase = PhaseReady
		return s

	case SubmitFailed:
		// back to ready so the selection can be edited and resubmitted
		if s.Phase != PhaseSaving {
			return s
		}
		s.Phase = PhaseReady
		s.Err = ev.Err
		return s
	}
	return s
}

// Apply folds events into s in order.
func Apply(s State, events ...Event) State {
	for _, e := range events {
		s = Reduce(s, e)
	}
	return s
}

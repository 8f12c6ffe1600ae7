package providers

import (
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// Dispatcher is the sealed set of provider variants. Selection happens once
// per call chain through Resolve, so authorize and cancel can never pick
// different variants for the same action.
type Dispatcher struct {
	fallback entities.ProviderID
	variants map[entities.ProviderID]ports.ReservationProvider
}

// NewDispatcher registers the variants and the documented default used when
// an event declares no provider id.
func NewDispatcher(fallback entities.ProviderID, variants ...ports.ReservationProvider) *Dispatcher {
	byID := make(map[entities.ProviderID]ports.ReservationProvider, len(variants))
	for _, variant := range variants {
		byID[variant.ID()] = variant
	}
	return &Dispatcher{fallback: fallback, variants: byID}
}

func (d *Dispatcher) Resolve(id entities.ProviderID) (ports.ReservationProvider, error) {
	if id == "" {
		id = d.fallback
	}
	variant, ok := d.variants[id]
	if !ok {
		return nil, domainerrors.Argumentf("unknown provider %q", string(id))
	}
	return variant, nil
}

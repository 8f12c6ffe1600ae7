package providers

import (
	"errors"
	"testing"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
)

func TestDispatcherResolvesRegisteredVariant(t *testing.T) {
	dispatcher := NewDispatcher(entities.ProviderVenueHub,
		NewVenueHub(Config{BaseURL: "http://venuehub"}),
		NewGateLink(Config{BaseURL: "http://gatelink"}),
	)

	provider, err := dispatcher.Resolve(entities.ProviderGateLink)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if provider.ID() != entities.ProviderGateLink {
		t.Fatalf("expected gatelink, got %s", provider.ID())
	}
}

func TestDispatcherEmptyIDFallsBack(t *testing.T) {
	dispatcher := NewDispatcher(entities.ProviderVenueHub,
		NewVenueHub(Config{BaseURL: "http://venuehub"}),
	)

	provider, err := dispatcher.Resolve("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if provider.ID() != entities.ProviderVenueHub {
		t.Fatalf("expected the configured default, got %s", provider.ID())
	}
}

func TestDispatcherUnknownIDIsAnArgumentError(t *testing.T) {
	dispatcher := NewDispatcher(entities.ProviderVenueHub,
		NewVenueHub(Config{BaseURL: "http://venuehub"}),
	)

	_, err := dispatcher.Resolve("ticketron")
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// Provider is an in-memory reservation back-end. Tests and the in-memory
// module run against it; error fields inject the remote failures the saga
// must survive.
type Provider struct {
	ProviderID entities.ProviderID
	// Legacy providers place the hold inside Confirm and have no separate
	// start step, like the gatelink back-end.
	Legacy     bool
	StartErr   error
	ConfirmErr error
	ReleaseErr error

	mu           sync.Mutex
	sequence     int
	holds        map[string]bool
	StartCalls   int
	ConfirmCalls int
	ReleaseCalls int

	LastStartParams   ports.StartHoldParams
	LastReleaseParams ports.ReleaseParams
}

func (p *Provider) ID() entities.ProviderID {
	return p.ProviderID
}

func (p *Provider) Start(_ context.Context, params ports.StartHoldParams) (*entities.PendingHold, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.StartCalls++
	p.LastStartParams = params
	if p.StartErr != nil {
		return nil, p.StartErr
	}
	if p.Legacy {
		return nil, nil
	}
	p.sequence++
	holdID := fmt.Sprintf("hold-%d", p.sequence)
	if p.holds == nil {
		p.holds = make(map[string]bool)
	}
	p.holds[holdID] = true
	return &entities.PendingHold{HoldID: holdID, Type: "memory_hold"}, nil
}

func (p *Provider) Confirm(_ context.Context, hold *entities.PendingHold, params ports.ConfirmParams) (ports.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ConfirmCalls++
	if p.ConfirmErr != nil {
		return ports.Receipt{}, p.ConfirmErr
	}
	if !p.Legacy {
		if hold == nil || !p.holds[hold.HoldID] {
			return ports.Receipt{}, domainerrors.NotFoundf("hold not open")
		}
	}
	requestBody, err := json.Marshal(params)
	if err != nil {
		return ports.Receipt{}, err
	}
	responseBody, err := json.Marshal(params.Offers)
	if err != nil {
		return ports.Receipt{}, err
	}
	return ports.Receipt{
		RequestBody:  requestBody,
		ResponseBody: responseBody,
		Reserved:     params.Offers,
	}, nil
}

func (p *Provider) Release(_ context.Context, params ports.ReleaseParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReleaseCalls++
	p.LastReleaseParams = params
	if p.ReleaseErr != nil {
		return p.ReleaseErr
	}
	if params.Hold != nil {
		// Releasing an already-gone hold stays silent, per the contract.
		delete(p.holds, params.Hold.HoldID)
	}
	return nil
}

// Verifier is an in-memory redemption verifier keyed by credential
// identifier.
type Verifier struct {
	FaceValues map[string]int
	FailCode   int
}

func (v Verifier) Verify(_ context.Context, credential entities.RedemptionCredential, _ string) (ports.VerificationResult, error) {
	if v.FailCode != 0 {
		return ports.VerificationResult{}, domainerrors.FromVerifierCode(v.FailCode, "verifier rejected credential")
	}
	faceValue, ok := v.FaceValues[credential.Identifier]
	if !ok {
		return ports.VerificationResult{}, domainerrors.FromVerifierCode(400, "unknown credential")
	}
	raw, _ := json.Marshal(map[string]int{"face_value": faceValue})
	return ports.VerificationResult{FaceValue: faceValue, Raw: raw}, nil
}

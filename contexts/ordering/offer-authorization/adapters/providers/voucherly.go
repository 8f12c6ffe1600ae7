package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// Voucherly verifies pre-purchased voucher credentials. It is consumed by
// the offer validator, not by the dispatcher.
type Voucherly struct {
	client
}

func NewVoucherly(cfg Config) *Voucherly {
	return &Voucherly{client: newClient(cfg)}
}

type voucherlyVerifyRequest struct {
	Identifier string `json:"identifier"`
	AccessCode string `json:"access_code"`
	EventID    string `json:"event_id"`
}

type voucherlyVerifyResponse struct {
	FaceValue int    `json:"face_value"`
	Currency  string `json:"currency"`
}

type voucherlyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (v *Voucherly) Verify(ctx context.Context, credential entities.RedemptionCredential, eventID string) (ports.VerificationResult, error) {
	status, _, body, err := v.do(ctx, http.MethodPost, "/v1/verify", voucherlyVerifyRequest{
		Identifier: credential.Identifier,
		AccessCode: credential.AccessCode,
		EventID:    eventID,
	})
	if err != nil {
		return ports.VerificationResult{}, err
	}
	if status != http.StatusOK {
		failure := voucherlyError{Code: status}
		if err := json.Unmarshal(body, &failure); err != nil || failure.Code == 0 {
			failure.Code = status
		}
		if failure.Message == "" {
			failure.Message = http.StatusText(status)
		}
		return ports.VerificationResult{}, domainerrors.FromVerifierCode(failure.Code, failure.Message)
	}

	var decoded voucherlyVerifyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.VerificationResult{}, domainerrors.Unavailablef("voucherly response malformed: %v", err)
	}
	return ports.VerificationResult{
		FaceValue: decoded.FaceValue,
		Currency:  decoded.Currency,
		Raw:       body,
	}, nil
}

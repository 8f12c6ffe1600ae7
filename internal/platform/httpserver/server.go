package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	offerauthorization "boxoffice/contexts/ordering/offer-authorization"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	authtransport "boxoffice/contexts/ordering/offer-authorization/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "boxoffice/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	ordering offerauthorization.Module
}

func New(ordering offerauthorization.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		ordering: ordering,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /v1/transactions/{transaction_id}/authorize/seat-reservation",
		s.handleAuthorize(entities.OfferKindSeatReservation))
	s.mux.HandleFunc("POST /v1/transactions/{transaction_id}/authorize/card-registration",
		s.handleAuthorize(entities.OfferKindCardRegistration))
	s.mux.HandleFunc("POST /v1/transactions/{transaction_id}/authorize/money-transfer",
		s.handleAuthorize(entities.OfferKindMoneyTransfer))
	s.mux.HandleFunc("POST /v1/transactions/{transaction_id}/authorize/membership",
		s.handleAuthorize(entities.OfferKindMembership))

	s.mux.HandleFunc("PUT /v1/transactions/{transaction_id}/actions/{action_id}/offers", s.handleChangeOffers)
	s.mux.HandleFunc("DELETE /v1/transactions/{transaction_id}/actions/{action_id}", s.handleCancel)
	s.mux.HandleFunc("GET /v1/transactions/{transaction_id}/actions", s.handleListActions)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAuthorize(kind entities.OfferKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, ok := callerAgent(w, r)
		if !ok {
			return
		}
		var req authtransport.AuthorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
			return
		}
		resp, err := s.ordering.Handler.AuthorizeHandler(r.Context(), kind, r.PathValue("transaction_id"), agentID, req)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (s *Server) handleChangeOffers(w http.ResponseWriter, r *http.Request) {
	agentID, ok := callerAgent(w, r)
	if !ok {
		return
	}
	var req authtransport.ChangeOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.ordering.Handler.ChangeOffersHandler(r.Context(),
		r.PathValue("transaction_id"), agentID, r.PathValue("action_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	agentID, ok := callerAgent(w, r)
	if !ok {
		return
	}
	resp, err := s.ordering.Handler.CancelHandler(r.Context(),
		r.PathValue("transaction_id"), agentID, r.PathValue("action_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	agentID, ok := callerAgent(w, r)
	if !ok {
		return
	}
	resp, err := s.ordering.Handler.ListActionsHandler(r.Context(), r.PathValue("transaction_id"), agentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func callerAgent(w http.ResponseWriter, r *http.Request) (string, bool) {
	agentID := r.Header.Get("X-Agent-ID")
	if agentID == "" {
		writeError(w, http.StatusUnauthorized, "missing_agent", "X-Agent-ID header is required")
		return "", false
	}
	return agentID, true
}

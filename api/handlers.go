/*
handlers.go - HTTP API handlers for the benefit engine

PURPOSE:
  Exposes the daily-rate calculator and caseworker review via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  dagpenger and saksbehandler packages.

ENDPOINTS:
  Grunnbeløp:
    GET    /api/grunnbelop           G in use and derived thresholds
    GET    /api/grunnbelop/history   Recorded G values (needs a store)

  Claims:
    POST   /api/calculations         Claim in, unreviewed decision out
    POST   /api/claims               Claim + reviewer in, reviewed decision out

ARCHITECTURE:
  Handler holds only read-only dependencies: the Provider is fetched once at
  startup, and every request builds its own history, calculator, decision
  and reviewer. Nothing a request creates outlives it.

REQUEST FLOW:
  1. Read and parse the body (factory.ClaimFactory)
  2. Calculate (dagpenger.Calculator)
  3. Optionally review (saksbehandler.Reviewer)
  4. Record metrics, serialize response

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status picked from the error
  taxonomy in generic/errors.go:
  - 400: Validation errors, empty history, invalid arguments
  - 404: No grunnbeløp recorded
  - 409: Reviewer specialization does not match the decision category
  - 503: Grunnbeløp unavailable
  - 500: Everything else

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/warp/benefit-engine/dagpenger"
	"github.com/warp/benefit-engine/factory"
	"github.com/warp/benefit-engine/generic"
	"github.com/warp/benefit-engine/grunnbelop"
	"github.com/warp/benefit-engine/metrics"
	"github.com/warp/benefit-engine/saksbehandler"
)

// maxBodyBytes bounds claim bodies. A claim is a handful of salary rows.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Provider *grunnbelop.Provider
	Claims   *factory.ClaimFactory

	// Store backs the history endpoint. Optional.
	Store generic.BaselineStore

	// Metrics may be nil.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewHandler creates a handler around an initialized provider.
func NewHandler(provider *grunnbelop.Provider, store generic.BaselineStore, m *metrics.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Provider: provider,
		Claims:   factory.NewClaimFactory(),
		Store:    store,
		Metrics:  m,
		Logger:   logger,
	}
}

// =============================================================================
// GRUNNBELØP HANDLERS
// =============================================================================

// GetGrunnbelop returns G and the thresholds derived from it.
func (h *Handler) GetGrunnbelop(w http.ResponseWriter, r *http.Request) {
	dto, err := toGrunnbelopDTO(h.Provider)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListGrunnbelopHistory returns every recorded G, oldest first.
func (h *Handler) ListGrunnbelopHistory(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusNotFound, "No grunnbeløp history configured", nil)
		return
	}

	records, err := h.Store.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	dtos := make([]BaselineRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toBaselineRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CLAIM HANDLERS
// =============================================================================

// Calculate runs the calculator on a claim and returns the unreviewed
// decision.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	claim, decision, err := h.calculate(req.ClaimJSON)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ClaimResponse{
		Claimant: claim.Claimant,
		Decision: toDecisionDTO(decision),
	})
}

// SubmitClaim calculates a claim and hands the decision to the named
// caseworker. A specialization mismatch returns 409 with the decision left
// unreviewed.
func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	var req ClaimRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Reviewer.Name == "" {
		h.writeDomainError(w, r, &generic.ValidationError{Field: "reviewer.name", Message: "reviewer name is required"})
		return
	}
	specialization, err := dagpenger.ParseCategory(req.Reviewer.Specialization)
	if err != nil {
		var verr *generic.ValidationError
		if errors.As(err, &verr) {
			verr.Field = "reviewer.specialization"
		}
		h.writeDomainError(w, r, err)
		return
	}

	claim, decision, err := h.calculate(req.ClaimJSON)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	reviewer := saksbehandler.New(req.Reviewer.Name, specialization)
	if h.Metrics != nil {
		reviewer.Observer = h.Metrics
	}

	if err := reviewer.Review(decision); err != nil {
		if generic.IsConflict(err) {
			dto := toDecisionDTO(decision)
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:    "Reviewer cannot review this decision",
				Details:  err.Error(),
				Decision: &dto,
			})
			return
		}
		h.writeDomainError(w, r, err)
		return
	}

	h.Logger.InfoContext(r.Context(), "claim reviewed",
		"request_id", middleware.GetReqID(r.Context()),
		"decision_id", decision.ID(),
		"category", decision.Category(),
		"status", decision.Status(),
		"reviewer", reviewer.Name(),
	)

	writeJSON(w, http.StatusOK, ClaimResponse{
		Claimant: claim.Claimant,
		Decision: toDecisionDTO(decision),
	})
}

func (h *Handler) calculate(cj factory.ClaimJSON) (*factory.Claim, *dagpenger.Decision, error) {
	claim, err := h.Claims.FromJSON(cj)
	if err != nil {
		return nil, nil, err
	}

	decision, err := dagpenger.NewCalculator(claim.History, h.Provider).Calculate()
	h.Metrics.ObserveDecision(decision, err)
	if err != nil {
		return nil, nil, err
	}
	return claim, decision, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into v. On failure it writes the 400 itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return false
	}
	return true
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsConflict(err):
		return http.StatusConflict
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, status, "Internal error", nil)
		return
	}

	resp := ErrorResponse{Error: http.StatusText(status), Details: err.Error()}
	var verr *generic.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "Validation failed"
		resp.Field = verr.Field
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// Healthz reports liveness. The provider is resolved before the router is
// built, so a running server always has a G.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"grunnbelop": fmt.Sprintf("%s (%s)", h.Provider.Amount().Value, h.Provider.Source()),
	})
}

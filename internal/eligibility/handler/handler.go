package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	disclosureModels "meridian/internal/disclosure/models"
	"meridian/internal/eligibility"
	"meridian/pkg/domain"
	"meridian/pkg/platform/httputil"
	"meridian/pkg/requestcontext"
)

type Service interface {
	EvaluateByID(ctx context.Context, investorID domain.InvestorID, dealID domain.DealID, amount *decimal.Decimal) (eligibility.Decision, error)
}

// EvaluateResponse is the JSON form of a decision.
type EvaluateResponse struct {
	Success           bool                            `json:"success"`
	Allowed           bool                            `json:"allowed"`
	Conditional       bool                            `json:"conditional"`
	PrimaryReason     eligibility.Reason              `json:"primary_reason"`
	Reasons           []eligibility.Reason            `json:"reasons"`
	SecondaryReasons  []eligibility.Reason            `json:"secondary_reasons"`
	RequiredDocuments []disclosureModels.DocumentKind `json:"required_documents"`
}

func toEvaluateResponse(d eligibility.Decision) EvaluateResponse {
	return EvaluateResponse{
		Success:           true,
		Allowed:           d.Allowed,
		Conditional:       d.Conditional(),
		PrimaryReason:     d.PrimaryReason,
		Reasons:           d.Reasons,
		SecondaryReasons:  d.SecondaryReasons(),
		RequiredDocuments: d.RequiredDocuments,
	}
}

// Handler serves the eligibility endpoint.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/eligibility/evaluate", h.handleEvaluate)
}

// handleEvaluate answers 200 for both allow and deny. Only a profile that
// cannot be loaded is an error.
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[eligibility.EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	investorID, dealID := req.IDs()

	decision, err := h.service.EvaluateByID(ctx, investorID, dealID, req.AmountValue())
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility evaluation failed",
			"request_id", requestID,
			"investor_id", investorID.String(),
			"deal_id", dealID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toEvaluateResponse(decision))
}

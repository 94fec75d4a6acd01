package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"meridian/internal/compliance/models"
	investorModels "meridian/internal/investor/models"
	"meridian/internal/verification/provider"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	"meridian/pkg/platform/httputil"
	"meridian/pkg/requestcontext"
)

// maxWebhookBody caps provider callback bodies.
const maxWebhookBody = 1 << 20

type Service interface {
	SetStatus(ctx context.Context, investorID domain.InvestorID, status, reviewedBy, notes string) (*investorModels.Profile, error)
	SyncVerification(ctx context.Context, investorID domain.InvestorID, actor string) (models.Outcome, error)
	HandleWebhook(ctx context.Context, payload *provider.WebhookPayload) (models.Outcome, error)
}

// WebhookVerifier authenticates provider callbacks.
type WebhookVerifier interface {
	Configured() bool
	Verify(body []byte, digest, alg string) error
}

// Handler serves compliance status and verification endpoints.
type Handler struct {
	logger   *slog.Logger
	service  Service
	verifier WebhookVerifier
}

func New(service Service, verifier WebhookVerifier, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service, verifier: verifier}
}

// RegisterPublic mounts the provider callback. It authenticates with the
// payload digest, not the admin token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/webhooks/verification", h.handleWebhook)
}

// RegisterAdmin mounts reviewer routes. Mount behind the admin token
// middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/admin/investors/{id}/compliance-status", h.handleSetStatus)
	r.Post("/admin/investors/{id}/verification/sync", h.handleSync)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.StatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	profile, err := h.service.SetStatus(ctx, investorID, req.Status, requestcontext.ActorID(ctx), req.Notes)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to set compliance status",
			"request_id", requestID,
			"investor_id", investorID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, investorModels.ToProfileResponse(profile))
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	investorID, ok := h.investorID(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.SyncVerification(ctx, investorID, requestcontext.ActorID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "verification sync failed",
			"request_id", requestID,
			"investor_id", investorID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToVerificationResponse(outcome))
}

func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if h.verifier == nil || !h.verifier.Configured() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "webhook verification is not configured"))
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "webhook body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read webhook body"))
		return
	}
	if err := h.verifier.Verify(body, r.Header.Get(provider.HeaderPayloadDigest), r.Header.Get(provider.HeaderPayloadDigestAlg)); err != nil {
		h.logger.WarnContext(ctx, "rejected verification webhook",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid payload digest"))
		return
	}

	payload, err := provider.ParseWebhook(body)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error()))
		return
	}

	outcome, err := h.service.HandleWebhook(ctx, payload)
	if err != nil {
		h.logger.WarnContext(ctx, "verification webhook not applied",
			"request_id", requestID,
			"applicant_id", payload.ApplicantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToVerificationResponse(outcome))
}

func (h *Handler) investorID(w http.ResponseWriter, r *http.Request) (domain.InvestorID, bool) {
	investorID, err := domain.ParseInvestorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return domain.InvestorID{}, false
	}
	return investorID, true
}

package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"meridian/internal/compliance/handler/mocks"
	"meridian/internal/compliance/models"
	investorModels "meridian/internal/investor/models"
	"meridian/internal/verification"
	"meridian/internal/verification/provider"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
	"meridian/pkg/requestcontext"
)

const webhookSecret = "whsec-test"

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = s.newRouter(provider.NewWebhookVerifier(webhookSecret))
}

func (s *HandlerSuite) newRouter(verifier WebhookVerifier) chi.Router {
	h := New(s.service, verifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterAdmin(r)
	return r
}

func (s *HandlerSuite) serve(router chi.Router, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func (s *HandlerSuite) admin(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(requestcontext.WithActorID(req.Context(), "reviewer-9"))
	return s.serve(s.router, req)
}

func (s *HandlerSuite) webhook(router chi.Router, body, digest string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/verification", strings.NewReader(body))
	if digest != "" {
		req.Header.Set(provider.HeaderPayloadDigest, digest)
		req.Header.Set(provider.HeaderPayloadDigestAlg, "HMAC_SHA256_HEX")
	}
	return s.serve(router, req)
}

func sign(body string) string {
	return provider.Digest([]byte(webhookSecret), []byte(body), sha256.New)
}

func profile(id domain.InvestorID, status domain.ComplianceStatus) *investorModels.Profile {
	p, _ := investorModels.NewProfile(id, "DE", domain.InvestorProfessional, false, false, nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	p.ComplianceStatus = status
	p.StatusSource = investorModels.SourceManual
	return p
}

func (s *HandlerSuite) TestSetStatus() {
	investorID := domain.NewInvestorID()
	path := "/admin/investors/" + investorID.String() + "/compliance-status"

	s.Run("passes reviewer and normalised status", func() {
		s.service.EXPECT().
			SetStatus(gomock.Any(), investorID, "suspended", "reviewer-9", "fraud alert").
			Return(profile(investorID, domain.StatusSuspended), nil)

		rec, body := s.admin(http.MethodPut, path, `{"status":" SUSPENDED ","notes":"fraud alert"}`)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("suspended", body["compliance_status"])
		s.Equal("manual", body["status_source"])
	})

	s.Run("invalid status is a validation error", func() {
		s.service.EXPECT().
			SetStatus(gomock.Any(), investorID, "maybe", "reviewer-9", "").
			Return(nil, dErrors.New(dErrors.CodeValidation, "invalid status"))

		rec, body := s.admin(http.MethodPut, path, `{"status":"maybe"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", body["error"])
		s.Equal("invalid status", body["error_description"])
	})

	s.Run("missing status never reaches the service", func() {
		rec, _ := s.admin(http.MethodPut, path, `{"notes":"x"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown investor", func() {
		s.service.EXPECT().
			SetStatus(gomock.Any(), investorID, "approved", "reviewer-9", "").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "investor not found"))

		rec, body := s.admin(http.MethodPut, path, `{"status":"approved"}`)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("not_found", body["error"])
	})

	s.Run("malformed investor id", func() {
		rec, _ := s.admin(http.MethodPut, "/admin/investors/not-a-uuid/compliance-status", `{"status":"approved"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestSync() {
	investorID := domain.NewInvestorID()
	path := "/admin/investors/" + investorID.String() + "/verification/sync"

	s.Run("returns outcome", func() {
		s.service.EXPECT().SyncVerification(gomock.Any(), investorID, "reviewer-9").Return(models.Outcome{
			InvestorID: investorID,
			Applied:    true,
			Status:     domain.StatusApproved,
			Result:     verification.Result{Status: verification.StatusApproved, ApplicantID: "app-1"},
		}, nil)

		rec, body := s.admin(http.MethodPost, path, "")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(true, body["applied"])
		s.Equal("approved", body["verification_status"])
		s.Equal("approved", body["compliance_status"])
		s.Equal("app-1", body["applicant_id"])
	})

	s.Run("unconfigured provider is 503", func() {
		s.service.EXPECT().SyncVerification(gomock.Any(), investorID, "reviewer-9").
			Return(models.Outcome{}, dErrors.New(dErrors.CodeUnavailable, "verification provider is not configured"))

		rec, body := s.admin(http.MethodPost, path, "")
		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Equal("service_unavailable", body["error"])
	})
}

func (s *HandlerSuite) TestWebhook() {
	investorID := domain.NewInvestorID()

	s.Run("valid digest is handled", func() {
		payload := `{"applicantId":"app-7","type":"applicantReviewed","reviewStatus":"completed"}`
		s.service.EXPECT().
			HandleWebhook(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *provider.WebhookPayload) (models.Outcome, error) {
				s.Equal("app-7", p.ApplicantID)
				s.Equal("applicantReviewed", p.Type)
				return models.Outcome{
					InvestorID: investorID,
					Status:     domain.StatusPendingReview,
					Reason:     models.IgnoreNotApproved,
					Result:     verification.Result{Status: verification.StatusPending, ApplicantID: "app-7"},
				}, nil
			})

		rec, body := s.webhook(s.router, payload, sign(payload))
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(false, body["applied"])
		s.Equal("result_not_approved", body["ignored_reason"])
		s.Equal(investorID.String(), body["investor_id"])
	})

	s.Run("bad digest is rejected", func() {
		payload := `{"applicantId":"app-7"}`
		rec, body := s.webhook(s.router, payload, sign(payload+"tampered"))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal("unauthorized", body["error"])
	})

	s.Run("missing digest is rejected", func() {
		rec, _ := s.webhook(s.router, `{"applicantId":"app-7"}`, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("signed payload without identifiers is a bad request", func() {
		payload := `{"type":"applicantReviewed"}`
		rec, _ := s.webhook(s.router, payload, sign(payload))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("oversized body is rejected", func() {
		payload := `{"applicantId":"` + strings.Repeat("a", maxWebhookBody) + `"}`
		rec, _ := s.webhook(s.router, payload, sign(payload))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unconfigured secret is 503", func() {
		router := s.newRouter(provider.NewWebhookVerifier(""))
		payload := `{"applicantId":"app-7"}`
		rec, _ := s.webhook(router, payload, sign(payload))
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})

	s.Run("unmatched applicant is 404", func() {
		payload := `{"applicantId":"ghost"}`
		s.service.EXPECT().HandleWebhook(gomock.Any(), gomock.Any()).
			Return(models.Outcome{}, dErrors.New(dErrors.CodeNotFound, "no investor linked to applicant"))

		rec, _ := s.webhook(s.router, payload, sign(payload))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

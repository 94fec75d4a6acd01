package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	disclosureModels "meridian/internal/disclosure/models"
	"meridian/internal/eligibility"
	"meridian/internal/eligibility/handler/mocks"
	"meridian/pkg/domain"
	dErrors "meridian/pkg/domain-errors"
)

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
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) evaluate(body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, "/eligibility/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func (s *HandlerSuite) TestEvaluate() {
	investorID := domain.NewInvestorID()
	dealID := domain.NewDealID()

	s.Run("allow", func() {
		s.service.EXPECT().EvaluateByID(gomock.Any(), investorID, dealID, gomock.Nil()).Return(eligibility.Decision{
			Allowed:           true,
			PrimaryReason:     eligibility.ReasonEligible,
			Reasons:           []eligibility.Reason{eligibility.ReasonEligible, eligibility.ReasonPoliticallyExposed},
			RequiredDocuments: []disclosureModels.DocumentKind{disclosureModels.DocProspectus, disclosureModels.DocKeyInformation},
		}, nil)

		rec, body := s.evaluate(`{"investor_id":"` + investorID.String() + `","deal_id":"` + dealID.String() + `"}`)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(true, body["success"])
		s.Equal(true, body["allowed"])
		s.Equal(false, body["conditional"])
		s.Equal("eligible", body["primary_reason"])
		s.Equal([]any{"politically_exposed"}, body["secondary_reasons"])
		s.Equal([]any{"prospectus", "key_information_document"}, body["required_documents"])
	})

	s.Run("deny is still 200", func() {
		s.service.EXPECT().EvaluateByID(gomock.Any(), investorID, dealID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.InvestorID, _ domain.DealID, amount *decimal.Decimal) (eligibility.Decision, error) {
				s.Require().NotNil(amount)
				s.Equal("250.5", amount.String())
				return eligibility.Decision{
					PrimaryReason:     eligibility.ReasonBelowMinimumInvestment,
					Reasons:           []eligibility.Reason{eligibility.ReasonBelowMinimumInvestment},
					RequiredDocuments: []disclosureModels.DocumentKind{},
				}, nil
			})

		rec, body := s.evaluate(`{"investor_id":"` + investorID.String() + `","deal_id":"` + dealID.String() + `","amount":"250.50"}`)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(false, body["allowed"])
		s.Equal("below_minimum_investment", body["primary_reason"])
		s.Equal([]any{}, body["secondary_reasons"])
		s.Equal([]any{}, body["required_documents"])
	})

	s.Run("unknown investor is 404", func() {
		s.service.EXPECT().EvaluateByID(gomock.Any(), investorID, dealID, gomock.Nil()).
			Return(eligibility.Decision{}, dErrors.New(dErrors.CodeNotFound, "investor not found"))

		rec, body := s.evaluate(`{"investor_id":"` + investorID.String() + `","deal_id":"` + dealID.String() + `"}`)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("not_found", body["error"])
		s.Equal("investor not found", body["error_description"])
	})
}

func (s *HandlerSuite) TestEvaluateRejectsBadInput() {
	investorID := domain.NewInvestorID().String()
	dealID := domain.NewDealID().String()

	cases := map[string]string{
		"empty body":       ``,
		"missing deal":     `{"investor_id":"` + investorID + `"}`,
		"malformed id":     `{"investor_id":"nope","deal_id":"` + dealID + `"}`,
		"negative amount":  `{"investor_id":"` + investorID + `","deal_id":"` + dealID + `","amount":"-1"}`,
		"non-numeric":      `{"investor_id":"` + investorID + `","deal_id":"` + dealID + `","amount":"ten"}`,
		"unknown field":    `{"investor_id":"` + investorID + `","deal_id":"` + dealID + `","tier":"gold"}`,
		"malformed json":   `{"investor_id":`,
		"nil investor id":  `{"investor_id":"00000000-0000-0000-0000-000000000000","deal_id":"` + dealID + `"}`,
		"wrong value type": `{"investor_id":1,"deal_id":"` + dealID + `"}`,
	}
	for name, body := range cases {
		s.Run(name, func() {
			rec, out := s.evaluate(body)
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(false, out["success"])
		})
	}
}

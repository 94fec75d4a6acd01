package eligibility

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	AdminPUT(path string, body interface{}) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Remember(alias, id string)
	ID(alias string) (string, error)
}

// RegisterSteps registers deal setup and eligibility evaluation steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &eligibilitySteps{tc: tc}

	ctx.Step(`^a "([^"]*)" "([^"]*)" deal "([^"]*)" issued in "([^"]*)" with minimum "([^"]*)"$`, steps.upsertDeal)
	ctx.Step(`^the regulator has approved deal "([^"]*)"$`, steps.approveDeal)
	ctx.Step(`^I GET the disclosure of deal "([^"]*)"$`, steps.getDisclosure)
	ctx.Step(`^I evaluate investor "([^"]*)" for deal "([^"]*)"$`, steps.evaluate)
	ctx.Step(`^I evaluate investor "([^"]*)" for deal "([^"]*)" with amount "([^"]*)"$`, steps.evaluateWithAmount)
	ctx.Step(`^I evaluate an unknown investor for deal "([^"]*)"$`, steps.evaluateUnknownInvestor)
}

type eligibilitySteps struct {
	tc TestContext
}

func (s *eligibilitySteps) upsertDeal(ctx context.Context, compartment, instrument, alias, issuer, minimum string) error {
	id := newUUID()
	if err := s.tc.AdminPUT("/admin/deals/"+id, map[string]interface{}{
		"issuer_country":     issuer,
		"compartment_type":   compartment,
		"instrument_type":    instrument,
		"minimum_investment": minimum,
		"risk_level":         5,
	}); err != nil {
		return err
	}
	if err := s.expect(200, "upsert deal"); err != nil {
		return err
	}
	s.tc.Remember(alias, id)
	return nil
}

func (s *eligibilitySteps) approveDeal(ctx context.Context, alias string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	if err := s.tc.AdminPUT("/admin/deals/"+id+"/regulator-approval", map[string]interface{}{
		"approved": true,
	}); err != nil {
		return err
	}
	return s.expect(200, "approve deal")
}

func (s *eligibilitySteps) getDisclosure(ctx context.Context, alias string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	return s.tc.GET("/deals/"+id+"/disclosure", nil)
}

func (s *eligibilitySteps) evaluate(ctx context.Context, investorAlias, dealAlias string) error {
	return s.evaluateWithAmount(ctx, investorAlias, dealAlias, "")
}

func (s *eligibilitySteps) evaluateWithAmount(ctx context.Context, investorAlias, dealAlias, amount string) error {
	investorID, err := s.tc.ID(investorAlias)
	if err != nil {
		return err
	}
	dealID, err := s.tc.ID(dealAlias)
	if err != nil {
		return err
	}
	return s.post(investorID, dealID, amount)
}

func (s *eligibilitySteps) evaluateUnknownInvestor(ctx context.Context, dealAlias string) error {
	dealID, err := s.tc.ID(dealAlias)
	if err != nil {
		return err
	}
	return s.post(newUUID(), dealID, "")
}

func (s *eligibilitySteps) post(investorID, dealID, amount string) error {
	body := map[string]interface{}{
		"investor_id": investorID,
		"deal_id":     dealID,
	}
	if amount != "" {
		body["amount"] = amount
	}
	return s.tc.POST("/eligibility/evaluate", body)
}

func (s *eligibilitySteps) expect(status int, action string) error {
	if got := s.tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("%s: expected status %d but got %d: %s", action, status, got, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

// newUUID returns a random version 4 UUID. Deal ids are chosen by the caller.
func newUUID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

package investor

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	AdminPOST(path string, body interface{}) error
	AdminPUT(path string, body interface{}) error
	AdminGET(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	Remember(alias, id string)
	ID(alias string) (string, error)
}

// RegisterSteps registers investor administration steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &investorSteps{tc: tc}

	ctx.Step(`^a registered "([^"]*)" investor "([^"]*)" from "([^"]*)"$`, steps.registerInvestor)
	ctx.Step(`^I register a "([^"]*)" investor "([^"]*)" from "([^"]*)"$`, steps.registerInvestorRaw)
	ctx.Step(`^investor "([^"]*)" has compliance status "([^"]*)"$`, steps.setComplianceStatus)
	ctx.Step(`^I set the compliance status of investor "([^"]*)" to "([^"]*)"$`, steps.setComplianceStatusRaw)
	ctx.Step(`^investor "([^"]*)" is flagged as sanctioned$`, steps.flagSanctioned)
	ctx.Step(`^investor "([^"]*)" is flagged as politically exposed$`, steps.flagPEP)
	ctx.Step(`^I reclassify investor "([^"]*)" as "([^"]*)"$`, steps.reclassify)
	ctx.Step(`^I GET investor "([^"]*)"$`, steps.getInvestor)
	ctx.Step(`^I GET the history of investor "([^"]*)"$`, steps.getHistory)
}

type investorSteps struct {
	tc TestContext
}

func (s *investorSteps) registerInvestorRaw(ctx context.Context, investorType, alias, country string) error {
	if err := s.tc.AdminPOST("/admin/investors", map[string]interface{}{
		"country_code":  country,
		"investor_type": investorType,
	}); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 201 {
		return nil
	}
	id, err := s.tc.GetResponseField("investor_id")
	if err != nil {
		return err
	}
	s.tc.Remember(alias, fmt.Sprint(id))
	return nil
}

func (s *investorSteps) registerInvestor(ctx context.Context, investorType, alias, country string) error {
	if err := s.registerInvestorRaw(ctx, investorType, alias, country); err != nil {
		return err
	}
	return s.expect(201, "register investor")
}

func (s *investorSteps) setComplianceStatusRaw(ctx context.Context, alias, status string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	return s.tc.AdminPUT("/admin/investors/"+id+"/compliance-status", map[string]interface{}{
		"status": status,
		"notes":  "set by e2e scenario",
	})
}

func (s *investorSteps) setComplianceStatus(ctx context.Context, alias, status string) error {
	if err := s.setComplianceStatusRaw(ctx, alias, status); err != nil {
		return err
	}
	return s.expect(200, "set compliance status")
}

func (s *investorSteps) flagSanctioned(ctx context.Context, alias string) error {
	return s.screening(alias, false, true)
}

func (s *investorSteps) flagPEP(ctx context.Context, alias string) error {
	return s.screening(alias, true, false)
}

func (s *investorSteps) screening(alias string, pep, sanctioned bool) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	if err := s.tc.AdminPUT("/admin/investors/"+id+"/screening", map[string]interface{}{
		"is_pep":        pep,
		"is_sanctioned": sanctioned,
	}); err != nil {
		return err
	}
	return s.expect(200, "update screening")
}

func (s *investorSteps) reclassify(ctx context.Context, alias, investorType string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	return s.tc.AdminPUT("/admin/investors/"+id+"/classification", map[string]interface{}{
		"investor_type": investorType,
		"notes":         "reclassified by e2e scenario",
	})
}

func (s *investorSteps) getInvestor(ctx context.Context, alias string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	return s.tc.AdminGET("/admin/investors/" + id)
}

func (s *investorSteps) getHistory(ctx context.Context, alias string) error {
	id, err := s.tc.ID(alias)
	if err != nil {
		return err
	}
	return s.tc.AdminGET("/admin/investors/" + id + "/history")
}

func (s *investorSteps) expect(status int, action string) error {
	if got := s.tc.GetLastResponseStatus(); got != status {
		return fmt.Errorf("%s: expected status %d but got %d: %s", action, status, got, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

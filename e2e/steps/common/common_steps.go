package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (interface{}, error)
	ResponseContains(field string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers common step definitions used across features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^Meridian is running$`, steps.meridianIsRunning)

	ctx.Step(`^I POST to "([^"]*)" with empty body$`, steps.postWithEmptyBody)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I GET "([^"]*)" without the admin token$`, steps.get)
	ctx.Step(`^I GET "([^"]*)" with admin token "([^"]*)"$`, steps.getWithToken)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.responseFieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, steps.responseFieldShouldContain)
	ctx.Step(`^the response list "([^"]*)" should be empty$`, steps.responseListShouldBeEmpty)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) meridianIsRunning(ctx context.Context) error {
	if err := s.tc.GET("/health/live", nil); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, 200)
}

func (s *commonSteps) postWithEmptyBody(ctx context.Context, path string) error {
	return s.tc.POST(path, map[string]interface{}{})
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) getWithToken(ctx context.Context, path, token string) error {
	return s.tc.GET(path, map[string]string{"X-Admin-Token": token})
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	actualStatus := s.tc.GetLastResponseStatus()
	if actualStatus != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, actualStatus)
	}
	return nil
}

func (s *commonSteps) responseShouldContain(ctx context.Context, field string) error {
	if !s.tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain field: %s\nResponse: %s", field, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *commonSteps) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	actualValue, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

// responseFieldShouldContain matches substrings of scalars and elements of
// arrays.
func (s *commonSteps) responseFieldShouldContain(ctx context.Context, field, expected string) error {
	actualValue, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if list, ok := actualValue.([]interface{}); ok {
		for _, item := range list {
			if fmt.Sprint(item) == expected {
				return nil
			}
		}
		return fmt.Errorf("field %s: expected %v to contain %s", field, list, expected)
	}
	if !strings.Contains(fmt.Sprint(actualValue), expected) {
		return fmt.Errorf("field %s: expected to contain %s but got %v", field, expected, actualValue)
	}
	return nil
}

func (s *commonSteps) responseListShouldBeEmpty(ctx context.Context, field string) error {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	var list []interface{}
	if err := json.Unmarshal(data[field], &list); err != nil {
		return fmt.Errorf("field %s is not a list: %w", field, err)
	}
	if len(list) != 0 {
		return fmt.Errorf("field %s: expected empty list but got %v", field, list)
	}
	return nil
}

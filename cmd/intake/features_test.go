package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// scenario holds state for a single scenario.
type scenario struct {
	dir    string
	srv    *endpoint
	draft  string
	output string
	err    error
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	s := &scenario{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "intake-feature-*")
		if err != nil {
			return ctx, err
		}
		s.dir = dir
		return ctx, nil
	})

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.srv != nil {
			s.srv.Close()
			s.srv = nil
		}
		if s.dir != "" {
			os.RemoveAll(s.dir)
		}
		return ctx, nil
	})

	sc.Step(`^the intake endpoint replies (\d+) with:$`, s.endpointReplies)
	sc.Step(`^a draft:$`, s.aDraft)
	sc.Step(`^I run "([^"]*)"$`, s.iRun)
	sc.Step(`^the command should succeed$`, s.shouldSucceed)
	sc.Step(`^the command should fail with "([^"]*)"$`, s.shouldFailWith)
	sc.Step(`^the output should contain "([^"]*)"$`, s.outputContains)
	sc.Step(`^the endpoint should have received (\d+) requests?$`, s.receivedRequests)
	sc.Step(`^request (\d+) should have "([^"]*)" set to "([^"]*)"$`, s.requestHasField)
	sc.Step(`^request (\d+) should have "([^"]*)" unset$`, s.requestFieldUnset)
}

func (s *scenario) endpointReplies(status int, body *godog.DocString) error {
	s.srv = newEndpoint(status, body.Content)
	return nil
}

func (s *scenario) aDraft(body *godog.DocString) error {
	s.draft = filepath.Join(s.dir, "draft.yaml")
	content := strings.ReplaceAll(body.Content, "{year}", strconv.Itoa(time.Now().Year()))
	return os.WriteFile(s.draft, []byte(content), 0o600)
}

func (s *scenario) iRun(command string) error {
	url := "http://127.0.0.1:1/"
	if s.srv != nil {
		url = s.srv.URL
	}
	config := filepath.Join(s.dir, "intake.yaml")
	data := fmt.Sprintf("certification:\n  endpoint: %s\nonboarding:\n  endpoint: %s\n  verify_delay: 0s\n", url, url)
	if err := os.WriteFile(config, []byte(data), 0o600); err != nil {
		return err
	}

	args := []string{"--config", config}
	for _, f := range strings.Fields(command) {
		args = append(args, strings.ReplaceAll(f, "{draft}", s.draft))
	}
	s.output, s.err = execute(args...)
	return nil
}

func (s *scenario) shouldSucceed() error {
	if s.err != nil {
		return fmt.Errorf("expected success, got %v\noutput:\n%s", s.err, s.output)
	}
	return nil
}

func (s *scenario) shouldFailWith(message string) error {
	if s.err == nil {
		return fmt.Errorf("expected failure, got success\noutput:\n%s", s.output)
	}
	if !strings.Contains(s.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, s.err.Error())
	}
	return nil
}

func (s *scenario) outputContains(text string) error {
	text = strings.ReplaceAll(text, "{year}", strconv.Itoa(time.Now().Year()))
	if !strings.Contains(s.output, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, s.output)
	}
	return nil
}

func (s *scenario) receivedRequests(n int) error {
	if s.srv == nil {
		return fmt.Errorf("no endpoint configured")
	}
	if got := len(s.srv.requests()); got != n {
		return fmt.Errorf("expected %d requests, got %d", n, got)
	}
	return nil
}

func (s *scenario) request(n int) (map[string]any, error) {
	if s.srv == nil {
		return nil, fmt.Errorf("no endpoint configured")
	}
	reqs := s.srv.requests()
	if n < 1 || n > len(reqs) {
		return nil, fmt.Errorf("request %d not received (%d total)", n, len(reqs))
	}
	return reqs[n-1], nil
}

func (s *scenario) requestHasField(n int, field, want string) error {
	doc, err := s.request(n)
	if err != nil {
		return err
	}
	want = strings.ReplaceAll(want, "{year}", strconv.Itoa(time.Now().Year()))
	if got := fmt.Sprint(doc[field]); got != want {
		return fmt.Errorf("request %d: expected %s=%q, got %q", n, field, want, got)
	}
	return nil
}

func (s *scenario) requestFieldUnset(n int, field string) error {
	doc, err := s.request(n)
	if err != nil {
		return err
	}
	if v, ok := doc[field]; ok && v != nil {
		return fmt.Errorf("request %d: expected %s to be null, got %v", n, field, v)
	}
	return nil
}

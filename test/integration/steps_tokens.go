package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/jot/pkg/jot"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	token        string
	altServer    *ServerInstance
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a jot server is running$`, s.aJotServerIsRunning)
	sc.Step(`^a jot server is running with leeway (\d+) seconds$`, s.aJotServerIsRunningWithLeeway)
	sc.Step(`^a jot server is running with issuer "([^"]*)"$`, s.aJotServerIsRunningWithIssuer)

	// Issuance steps
	sc.Step(`^I request a token for subject "([^"]*)"$`, s.iRequestATokenForSubject)
	sc.Step(`^I request a token for subject "([^"]*)" with claims:$`, s.iRequestATokenForSubjectWithClaims)
	sc.Step(`^I request a token without a subject$`, s.iRequestATokenWithoutASubject)

	// Token manipulation steps
	sc.Step(`^I mint a token for subject "([^"]*)" elsewhere with the server key$`, s.iMintATokenElsewhere)
	sc.Step(`^I mint a token for subject "([^"]*)" elsewhere that expired (\d+) seconds ago$`, s.iMintAnExpiredTokenElsewhere)
	sc.Step(`^I mint an unsigned token for subject "([^"]*)"$`, s.iMintAnUnsignedToken)
	sc.Step(`^I tamper with the issued token$`, s.iTamperWithTheIssuedToken)

	// Request steps
	sc.Step(`^I call whoami with the issued token$`, s.iCallWhoamiWithTheIssuedToken)
	sc.Step(`^I call whoami without a token$`, s.iCallWhoamiWithoutAToken)
	sc.Step(`^I request the status page$`, s.iRequestTheStatusPage)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should receive a compact token$`, s.iShouldReceiveACompactToken)
	sc.Step(`^the whoami subject should be "([^"]*)"$`, s.theWhoamiSubjectShouldBe)
	sc.Step(`^the whoami issuer should be "([^"]*)"$`, s.theWhoamiIssuerShouldBe)
	sc.Step(`^the whoami claims should include "([^"]*)" as "([^"]*)"$`, s.theWhoamiClaimsShouldInclude)
	sc.Step(`^the status should report algorithm "([^"]*)"$`, s.theStatusShouldReportAlgorithm)

	// Scenario-scoped servers are torn down after each scenario
	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		if s.altServer != nil {
			s.altServer.Stop()
			s.altServer = nil
		}
		return ctx, nil
	})
}

// serverURL returns the scenario server when one is running, otherwise the
// suite-wide server.
func (s *StepsContext) serverURL() string {
	if s.altServer != nil {
		return s.altServer.ServerURL
	}
	return s.tc.ServerURL
}

// Background steps

func (s *StepsContext) aJotServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aJotServerIsRunningWithLeeway(seconds int) error {
	cfg := DefaultInstanceConfig()
	cfg.LeewaySeconds = seconds

	instance, err := StartServer(s.tc, cfg)
	if err != nil {
		return err
	}
	s.altServer = instance
	return nil
}

func (s *StepsContext) aJotServerIsRunningWithIssuer(issuer string) error {
	cfg := DefaultInstanceConfig()
	cfg.Issuer = issuer

	instance, err := StartServer(s.tc, cfg)
	if err != nil {
		return err
	}
	s.altServer = instance
	return nil
}

// Issuance steps

func (s *StepsContext) issueToken(body string) error {
	req, err := http.NewRequest("POST", s.serverURL()+"/tokens", strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	// If successful, keep the token for follow-up steps
	if s.response.StatusCode == http.StatusCreated {
		var issued struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &issued); err == nil {
			s.token = issued.Token
		}
	}

	return nil
}

func (s *StepsContext) iRequestATokenForSubject(subject string) error {
	body, _ := json.Marshal(map[string]any{"subject": subject})
	return s.issueToken(string(body))
}

func (s *StepsContext) iRequestATokenForSubjectWithClaims(subject string, claims *godog.DocString) error {
	var custom map[string]any
	if err := json.Unmarshal([]byte(claims.Content), &custom); err != nil {
		return fmt.Errorf("claims doc string must be a JSON object: %w", err)
	}

	body, _ := json.Marshal(map[string]any{"subject": subject, "claims": custom})
	return s.issueToken(string(body))
}

func (s *StepsContext) iRequestATokenWithoutASubject() error {
	return s.issueToken(`{"claims":{"role":"admin"}}`)
}

// Token manipulation steps

func (s *StepsContext) iMintATokenElsewhere(subject string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(10 * time.Minute).Unix(),
		"jti": uuid.NewString(),
	})

	signed, err := token.SignedString(s.tc.Key)
	if err != nil {
		return err
	}
	s.token = signed
	return nil
}

func (s *StepsContext) iMintAnExpiredTokenElsewhere(subject string, secondsAgo int) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Add(-time.Hour).Unix(),
		"exp": now.Add(-time.Duration(secondsAgo) * time.Second).Unix(),
	})

	signed, err := token.SignedString(s.tc.Key)
	if err != nil {
		return err
	}
	s.token = signed
	return nil
}

func (s *StepsContext) iMintAnUnsignedToken(subject string) error {
	now := time.Now()
	token, err := jot.EncodeWith(jot.None(), func(b *jot.Builder) {
		b.Subject(subject).IssuedAt(now).ExpiresAt(now.Add(10 * time.Minute))
	})
	if err != nil {
		return err
	}
	s.token = token
	return nil
}

func (s *StepsContext) iTamperWithTheIssuedToken() error {
	if s.token == "" {
		return fmt.Errorf("no token issued")
	}

	parts := strings.Split(s.token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("unexpected token shape: %s", s.token)
	}

	claims, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return err
	}

	claims = bytes.Replace(claims, []byte(`"sub":"`), []byte(`"sub":"x`), 1)
	parts[1] = base64.RawURLEncoding.EncodeToString(claims)
	s.token = strings.Join(parts, ".")
	return nil
}

// Request steps

func (s *StepsContext) iCallWhoamiWithTheIssuedToken() error {
	if s.token == "" {
		return fmt.Errorf("no token issued")
	}

	req, err := http.NewRequest("GET", s.serverURL()+"/whoami", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iCallWhoamiWithoutAToken() error {
	req, err := http.NewRequest("GET", s.serverURL()+"/whoami", nil)
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) iRequestTheStatusPage() error {
	req, err := http.NewRequest("GET", s.serverURL()+"/", nil)
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldReceiveACompactToken() error {
	var issued struct {
		Token     string `json:"token"`
		TokenID   string `json:"token_id"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := json.Unmarshal(s.responseBody, &issued); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if strings.Count(issued.Token, ".") != 2 {
		return fmt.Errorf("token is not in compact form: %s", issued.Token)
	}
	if issued.TokenID == "" {
		return fmt.Errorf("missing 'token_id' field in response")
	}
	if issued.ExpiresAt <= time.Now().Unix() {
		return fmt.Errorf("token expired on arrival at %d", issued.ExpiresAt)
	}

	return nil
}

func (s *StepsContext) theWhoamiSubjectShouldBe(subject string) error {
	var who struct {
		Subject string `json:"subject"`
	}
	if err := json.Unmarshal(s.responseBody, &who); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if who.Subject != subject {
		return fmt.Errorf("expected subject %q, got %q", subject, who.Subject)
	}
	return nil
}

func (s *StepsContext) theWhoamiIssuerShouldBe(issuer string) error {
	var who struct {
		Issuer string `json:"issuer"`
	}
	if err := json.Unmarshal(s.responseBody, &who); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if who.Issuer != issuer {
		return fmt.Errorf("expected issuer %q, got %q", issuer, who.Issuer)
	}
	return nil
}

func (s *StepsContext) theWhoamiClaimsShouldInclude(name, value string) error {
	var who struct {
		Claims map[string]any `json:"claims"`
	}
	if err := json.Unmarshal(s.responseBody, &who); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actual, ok := who.Claims[name]
	if !ok {
		return fmt.Errorf("claim %q not found in response", name)
	}
	if fmt.Sprintf("%v", actual) != value {
		return fmt.Errorf("expected claim %q to be %q, got %v", name, value, actual)
	}
	return nil
}

func (s *StepsContext) theStatusShouldReportAlgorithm(alg string) error {
	var status struct {
		Status    string `json:"status"`
		Algorithm string `json:"algorithm"`
	}
	if err := json.Unmarshal(s.responseBody, &status); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if status.Status != "ok" {
		return fmt.Errorf("expected status \"ok\", got %q", status.Status)
	}
	if status.Algorithm != alg {
		return fmt.Errorf("expected algorithm %q, got %q", alg, status.Algorithm)
	}
	return nil
}

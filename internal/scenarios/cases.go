package scenarios

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sauceqa/logincheck/internal/loginflow"
)

// GroupCases holds scenarios loaded from a cases file.
const GroupCases = "Cases"

// Expected outcomes of a case
const (
	ExpectSuccess = "success"
	ExpectFailure = "failure"
)

var ErrInvalidCase = errors.New("invalid case")

// Case is a credential pair with its expected outcome, as written in a cases file:
//
//	cases:
//	  - title: Problem user can log in
//	    username: problem_user
//	    password: secret_sauce
//	    expect: success
//	  - title: Wrong password is rejected
//	    username: standard_user
//	    password: nope
//	    expect: failure
//	    message: "Epic sadface: Username and password do not match any user in this service"
type Case struct {
	Title    string `yaml:"title"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Expect   string `yaml:"expect"`
	Message  string `yaml:"message,omitempty"`
	Skip     string `yaml:"skip,omitempty"`
}

type casesFile struct {
	Cases []Case `yaml:"cases"`
}

// Validate checks the expectation against the fixed message vocabulary.
func (c Case) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidCase)
	}
	switch c.Expect {
	case ExpectSuccess:
		if c.Message != "" {
			return fmt.Errorf("%w: %q expects success but sets a message", ErrInvalidCase, c.Title)
		}
	case ExpectFailure:
		if !loginflow.IsKnownMessage(c.Message) {
			return fmt.Errorf("%w: %q: %w", ErrInvalidCase, c.Title, loginflow.ErrUnknownMessage)
		}
	default:
		return fmt.Errorf("%w: %q: expect must be %q or %q, got %q", ErrInvalidCase, c.Title, ExpectSuccess, ExpectFailure, c.Expect)
	}
	return nil
}

// Scenario turns the case into a runnable scenario under the cases group.
func (c Case) Scenario() Scenario {
	creds := loginflow.Credentials{Username: c.Username, Password: c.Password}
	s := Scenario{
		Group: []string{GroupLogin, GroupCases},
		Title: c.Title,
		Skip:  c.Skip,
	}

	if c.Expect == ExpectFailure {
		s.Run = expectFailure(creds, c.Message)
		return s
	}
	s.Run = func(env *Env) error {
		if err := env.Verifier.AttemptLogin(creds); err != nil {
			return err
		}
		outcome, err := env.Verifier.Observe(env.Context)
		if err != nil {
			return err
		}
		return env.Expect.Outcome(outcome, loginflow.Success(env.Verifier.SuccessURL()))
	}
	return s
}

// ParseCases decodes and validates a cases document.
func ParseCases(data []byte) ([]Scenario, error) {
	var file casesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}

	seen := make(map[string]bool, len(file.Cases))
	scenarios := make([]Scenario, 0, len(file.Cases))
	for i, c := range file.Cases {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
		if seen[c.Title] {
			return nil, fmt.Errorf("case %d: %w: duplicate title %q", i+1, ErrInvalidCase, c.Title)
		}
		seen[c.Title] = true
		scenarios = append(scenarios, c.Scenario())
	}
	return scenarios, nil
}

// LoadCases reads a cases file from path.
func LoadCases(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases file: %w", err)
	}
	return ParseCases(data)
}

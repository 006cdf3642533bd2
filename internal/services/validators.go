package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/attendly/attendance-api/internal/constants"
)

// ValidationError aggregates field-level problems found before any store
// mutation happens.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// validator is a pure check returning zero or more problem messages.
type validator func() []string

// validateAll runs every validator and aggregates the results. Returns nil
// when all checks pass.
func validateAll(checks ...validator) error {
	var problems []string
	for _, check := range checks {
		problems = append(problems, check()...)
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func requireNonEmpty(field, value string) validator {
	return func() []string {
		if strings.TrimSpace(value) == "" {
			return []string{field + " is required"}
		}
		return nil
	}
}

func boundLength(field, value string, max int) validator {
	return func() []string {
		if len(value) > max {
			return []string{fmt.Sprintf("%s must be at most %d characters", field, max)}
		}
		return nil
	}
}

var (
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	lowerCasePattern = regexp.MustCompile(`[a-z]`)
	upperCasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`\d`)
)

func validEmail(email string) validator {
	return func() []string {
		if !emailPattern.MatchString(email) {
			return []string{"email is not a valid address"}
		}
		return nil
	}
}

// strongPassword enforces the signup password policy: minimum length plus
// upper-case, lower-case and digit character classes.
func strongPassword(password string) validator {
	return func() []string {
		var problems []string
		if len(password) < constants.MinPasswordLength {
			problems = append(problems, fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
		}
		if !lowerCasePattern.MatchString(password) {
			problems = append(problems, "password must contain a lower-case letter")
		}
		if !upperCasePattern.MatchString(password) {
			problems = append(problems, "password must contain an upper-case letter")
		}
		if !digitPattern.MatchString(password) {
			problems = append(problems, "password must contain a digit")
		}
		return problems
	}
}

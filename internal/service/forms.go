package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/password"
)

// LoginMinPasswordLength is the shortest password accepted by the login form.
const LoginMinPasswordLength = 6

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegistrationForm is the raw input of the sign-up form.
type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginForm is the raw input of the sign-in form.
type LoginForm struct {
	Email    string
	Password string
}

// ValidateRegistration checks the sign-up form. It returns *errs.ValidationError listing
// every problem, or nil.
func ValidateRegistration(f RegistrationForm) error {
	var problems []string
	if utf8.RuneCountInString(strings.TrimSpace(f.Name)) < 2 {
		problems = append(problems, "Please enter your full name")
	}
	if !reEmail.MatchString(f.Email) {
		problems = append(problems, "Please enter a valid email address")
	}
	if v := password.Validate(f.Password); !v.IsValid {
		problems = append(problems, v.Errors...)
	}
	if f.Password != f.ConfirmPassword {
		problems = append(problems, "Passwords do not match")
	}
	if len(problems) > 0 {
		return errs.Validation(problems...)
	}
	return nil
}

// ValidateLogin checks the sign-in form.
func ValidateLogin(f LoginForm) error {
	var problems []string
	if !reEmail.MatchString(f.Email) {
		problems = append(problems, "Please enter a valid email address")
	}
	if f.Password == "" {
		problems = append(problems, "Password is required")
	} else if utf8.RuneCountInString(f.Password) < LoginMinPasswordLength {
		problems = append(problems, "Password must be at least 6 characters")
	}
	if len(problems) > 0 {
		return errs.Validation(problems...)
	}
	return nil
}

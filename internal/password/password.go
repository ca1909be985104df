// Package password scores password strength and validates minimum requirements.
package password

import (
	"regexp"
	"strings"
	"unicode/utf8"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

// MinLength is the minimum password length accepted at registration.
const MinLength = 8

// MinEntropyBits is the advisory entropy threshold reported by Strength.
const MinEntropyBits = 30

// Level is a coarse strength classification.
type Level string

const (
	LevelNone   Level = "none"
	LevelWeak   Level = "weak"
	LevelMedium Level = "medium"
	LevelStrong Level = "strong"
)

// Color returns the hex color used to render the level.
func (l Level) Color() string {
	switch l {
	case LevelWeak:
		return "#ef4444"
	case LevelMedium:
		return "#f59e0b"
	case LevelStrong:
		return "#10b981"
	default:
		return "#6b7280"
	}
}

// Strength is the result of scoring a password.
type Strength struct {
	Score    int
	Level    Level
	Feedback []string
	// Entropy is informational only and does not affect Score.
	Entropy float64
	// EntropyHint is set when Entropy is below MinEntropyBits.
	EntropyHint string
}

// Validation is the result of checking a password against the registration rules.
type Validation struct {
	IsValid bool
	Errors  []string
}

var commonPasswords = []string{
	"password", "123456", "12345678", "qwerty", "abc123", "monkey", "1234567",
	"letmein", "trustno1", "dragon", "baseball", "iloveyou", "master", "sunshine",
	"ashley", "bailey", "passw0rd", "shadow", "123123", "654321", "superman",
	"qazwsx", "michael", "football", "password1", "welcome", "jesus", "ninja",
}

var (
	reLower      = regexp.MustCompile(`[a-z]`)
	reUpper      = regexp.MustCompile(`[A-Z]`)
	reDigit      = regexp.MustCompile(`[0-9]`)
	reSpecial    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	reSequential = regexp.MustCompile(`(?i)(?:abc|bcd|cde|def|efg|fgh|ghi|hij|ijk|jkl|klm|lmn|mno|nop|opq|pqr|qrs|rst|stu|tuv|uvw|vwx|wxy|xyz|012|123|234|345|456|567|678|789)`)
)

// Score computes a 0-100 additive strength score with feedback for every unmet condition.
func Score(pw string) Strength {
	if pw == "" {
		return Strength{Score: 0, Level: LevelNone, Feedback: []string{}}
	}

	score := 0
	feedback := []string{}
	award := func(ok bool, hint string) {
		if ok {
			score += 10
		} else if hint != "" {
			feedback = append(feedback, hint)
		}
	}

	n := utf8.RuneCountInString(pw)
	award(n >= MinLength, "Use at least 8 characters")
	award(n >= 12, "")
	award(n >= 16, "")

	award(reLower.MatchString(pw), "Add lowercase letters")
	award(reUpper.MatchString(pw), "Add uppercase letters")
	award(reDigit.MatchString(pw), "Add numbers")
	award(reSpecial.MatchString(pw), "Add special characters (!@#$%^&*)")

	award(!reSequential.MatchString(pw), "Avoid sequential characters")
	award(!hasRepeated(pw, 3), "Avoid repeated characters")
	award(!isCommon(pw), "Avoid common passwords")

	level := LevelStrong
	switch {
	case score < 40:
		level = LevelWeak
	case score < 70:
		level = LevelMedium
	}

	s := Strength{Score: score, Level: level, Feedback: feedback}
	s.Entropy = passwordvalidator.GetEntropy(pw)
	if err := passwordvalidator.Validate(pw, MinEntropyBits); err != nil {
		s.EntropyHint = err.Error()
	}
	return s
}

// Validate checks the registration rules and returns one message per unmet rule.
func Validate(pw string) Validation {
	if pw == "" {
		return Validation{IsValid: false, Errors: []string{"Password is required"}}
	}

	var errs []string
	if utf8.RuneCountInString(pw) < MinLength {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !reLower.MatchString(pw) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !reUpper.MatchString(pw) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !reDigit.MatchString(pw) {
		errs = append(errs, "Password must contain at least one number")
	}
	if !reSpecial.MatchString(pw) {
		errs = append(errs, "Password must contain at least one special character")
	}
	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// hasRepeated reports whether some character occurs at least n times in a row.
func hasRepeated(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func isCommon(pw string) bool {
	lower := strings.ToLower(pw)
	for _, c := range commonPasswords {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

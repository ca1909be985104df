package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/and161185/jobboard/internal/errs"
)

func problems(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *errs.ValidationError, got %T", err)
	}
	return ve.Problems
}

func TestValidateRegistration(t *testing.T) {
	t.Parallel()

	ok := RegistrationForm{Name: "Ann Lee", Email: "ann@example.com", Password: "Str0ng!Pass", ConfirmPassword: "Str0ng!Pass"}
	if err := ValidateRegistration(ok); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	got := problems(t, ValidateRegistration(RegistrationForm{Name: " A ", Email: "ann@example", Password: "weakpass1", ConfirmPassword: "other"}))
	want := []string{
		"Please enter your full name",
		"Please enter a valid email address",
		"Password must contain at least one uppercase letter",
		"Password must contain at least one special character",
		"Passwords do not match",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("problems = %q, want %q", got, want)
	}

	got = problems(t, ValidateRegistration(RegistrationForm{Name: "Ann", Email: "a@b.co"}))
	if !reflect.DeepEqual(got, []string{"Password is required"}) {
		t.Fatalf("empty password problems = %q", got)
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	if err := ValidateLogin(LoginForm{Email: "ann@example.com", Password: "123456"}); err != nil {
		t.Fatalf("valid login rejected: %v", err)
	}
	cases := []struct {
		form LoginForm
		want []string
	}{
		{LoginForm{Email: "not an email", Password: "secret1"}, []string{"Please enter a valid email address"}},
		{LoginForm{Email: "a@b.co", Password: ""}, []string{"Password is required"}},
		{LoginForm{Email: "a@b.co", Password: "12345"}, []string{"Password must be at least 6 characters"}},
	}
	for _, c := range cases {
		if got := problems(t, ValidateLogin(c.form)); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ValidateLogin(%+v) = %q, want %q", c.form, got, c.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	in := `<script>alert("x") & 'y'</script>`
	want := "&lt;script&gt;alert(&quot;x&quot;) &amp; &#x27;y&#x27;&lt;&#x2F;script&gt;"
	if got := Sanitize(in); got != want {
		t.Fatalf("Sanitize = %q, want %q", got, want)
	}
	if got := NormalizeEmail("  Ann@Example.COM "); got != "ann@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type SignupForm struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=100"`
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=100"`
}

// Validate returns one user-facing message per failing field.
func (f SignupForm) Validate() []string {
	return collectErrors(validate.Struct(f))
}

func (f LoginForm) Validate() []string {
	return collectErrors(validate.Struct(f))
}

func collectErrors(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{"Invalid input"}
	}

	var msgs []string
	for _, fe := range fieldErrors {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, "Name must be between 1 and 100 characters")
		case "Email":
			msgs = append(msgs, "Email must be a valid email address")
		case "Password":
			msgs = append(msgs, "Password must be between 6 and 100 characters")
		}
	}
	return msgs
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

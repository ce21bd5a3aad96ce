// Package validate checks contact payloads against the field rules and
// reports every violation as a human-readable message.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/model"
)

// Field limits.
const (
	MaxNameLen     = 50
	MaxCompanyLen  = 100
	MaxJobTitleLen = 100
	MaxAddressLen  = 200
	MaxNotesLen    = 500
	MaxTags        = 10
	MaxTagLen      = 20
)

var (
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	rePhone = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	reNoise = regexp.MustCompile(`[^\d+]`)

	v = newValidator()
)

func newValidator() *validator.Validate {
	vv := validator.New()
	_ = vv.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = vv.RegisterValidation("contact_phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	return vv
}

// Result is the outcome of Contact.
type Result struct {
	IsValid bool
	Errors  []string
}

// Err returns a *errs.ValidationError for an invalid result, nil otherwise.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &errs.ValidationError{Messages: append([]string(nil), r.Errors...)}
}

// IsEmail reports whether s has the simple local@domain.tld shape.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && reEmail.MatchString(s)
}

// IsPhone reports whether s, stripped of everything except digits and '+',
// is an optional '+' followed by a non-zero digit and at most 15 more digits.
func IsPhone(s string) bool {
	return rePhone.MatchString(reNoise.ReplaceAllString(s, ""))
}

// Contact validates a payload. Rules are evaluated independently and all
// messages are collected in check order. It never fails.
func Contact(in model.ContactInput) Result {
	var out []string
	add := func(msg string) { out = append(out, msg) }

	if blank(in.FirstName) {
		add("First name is required")
	}
	if blank(in.LastName) {
		add("Last name is required")
	}
	if blank(in.Email) {
		add("Email is required")
	} else if v.Var(*in.Email, "contact_email") != nil {
		add("Please enter a valid email address")
	}
	if !blank(in.Phone) && v.Var(*in.Phone, "contact_phone") != nil {
		add("Please enter a valid phone number")
	}

	tooLong := func(p *string, max int, msg string) {
		if p != nil && v.Var(*p, fmt.Sprintf("max=%d", max)) != nil {
			add(msg)
		}
	}
	tooLong(in.FirstName, MaxNameLen, "First name must be less than 50 characters")
	tooLong(in.LastName, MaxNameLen, "Last name must be less than 50 characters")
	tooLong(in.Company, MaxCompanyLen, "Company name must be less than 100 characters")
	tooLong(in.JobTitle, MaxJobTitleLen, "Job title must be less than 100 characters")
	tooLong(in.Address, MaxAddressLen, "Address must be less than 200 characters")
	tooLong(in.Notes, MaxNotesLen, "Notes must be less than 500 characters")

	if in.Category != nil && *in.Category != "" && !in.Category.Valid() {
		add("Please select a valid category")
	}

	if in.Tags != nil {
		if v.Var(in.Tags, fmt.Sprintf("max=%d", MaxTags)) != nil {
			add("Maximum 10 tags allowed")
		}
		for i, tag := range in.Tags {
			switch {
			case v.Var(strings.TrimSpace(tag), "required") != nil:
				add(fmt.Sprintf("Tag %d cannot be empty", i+1))
			case v.Var(tag, fmt.Sprintf("max=%d", MaxTagLen)) != nil:
				add(fmt.Sprintf("Tag %q must be less than 20 characters", tag))
			}
		}
	}

	return Result{IsValid: len(out) == 0, Errors: out}
}

func blank(p *string) bool { return p == nil || strings.TrimSpace(*p) == "" }

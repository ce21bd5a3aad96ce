// Package sanitize cleans raw form input before it reaches validation and storage.
package sanitize

import (
	"strings"

	"github.com/and161185/contactbook/internal/model"
)

// MaxLen caps any single cleaned string.
const MaxLen = 1000

var stripper = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "")

// Form is raw user input. A nil field was not submitted.
type Form struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
	JobTitle  *string
	Address   *string
	Notes     *string
	Category  *string
	Tags      []string
}

// String trims s, removes <, >, ' and ", and truncates to MaxLen runes.
func String(s string) string {
	s = stripper.Replace(strings.TrimSpace(s))
	if r := []rune(s); len(r) > MaxLen {
		s = string(r[:MaxLen])
	}
	return s
}

// Tags cleans every tag and drops the ones that end up empty.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if c := String(t); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Contact produces a complete payload for creation: missing optional
// fields become empty strings and the category defaults to other.
func Contact(f Form) model.ContactInput {
	str := func(p *string) *string {
		if p == nil {
			return model.Ptr("")
		}
		return model.Ptr(String(*p))
	}
	in := model.ContactInput{
		FirstName: str(f.FirstName),
		LastName:  str(f.LastName),
		Email:     model.Ptr(strings.ToLower(*str(f.Email))),
		Phone:     str(f.Phone),
		Company:   str(f.Company),
		JobTitle:  str(f.JobTitle),
		Address:   str(f.Address),
		Notes:     str(f.Notes),
		Category:  model.Ptr(model.CategoryOther),
		Tags:      Tags(f.Tags),
	}
	if f.Category != nil && *f.Category != "" {
		in.Category = model.Ptr(model.Category(*f.Category))
	}
	return in
}

// Patch cleans only the submitted fields, leaving the rest absent so an
// update preserves them.
func Patch(f Form) model.ContactInput {
	str := func(p *string) *string {
		if p == nil {
			return nil
		}
		return model.Ptr(String(*p))
	}
	in := model.ContactInput{
		FirstName: str(f.FirstName),
		LastName:  str(f.LastName),
		Email:     str(f.Email),
		Phone:     str(f.Phone),
		Company:   str(f.Company),
		JobTitle:  str(f.JobTitle),
		Address:   str(f.Address),
		Notes:     str(f.Notes),
	}
	if in.Email != nil {
		*in.Email = strings.ToLower(*in.Email)
	}
	if f.Category != nil {
		c := model.Category(*f.Category)
		if c == "" {
			c = model.CategoryOther
		}
		in.Category = &c
	}
	if f.Tags != nil {
		in.Tags = Tags(f.Tags)
	}
	return in
}

// Package model defines domain entities used by services and repositories.
package model

import (
	"time"
)

// Category classifies a contact.
type Category string

// Fixed category set.
const (
	CategoryPersonal Category = "personal"
	CategoryBusiness Category = "business"
	CategoryWork     Category = "work"
	CategoryFamily   Category = "family"
	CategoryOther    Category = "other"

	// CategoryAll is the filter sentinel matching every category; never stored.
	CategoryAll Category = "all"
)

// Categories lists the valid stored categories in display order.
var Categories = []Category{CategoryPersonal, CategoryBusiness, CategoryWork, CategoryFamily, CategoryOther}

// Valid reports whether c is one of the five stored categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Contact is a single address-book record. Field names on the wire match
// the persisted layout of the collection record.
type Contact struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Company         string    `json:"company"`
	JobTitle        string    `json:"jobTitle"`
	Address         string    `json:"address"`
	Notes           string    `json:"notes"`
	Category        Category  `json:"category"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	LastContactDate time.Time `json:"lastContactDate"`
}

// FullName returns "First Last".
func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// EffectiveCategory returns the category, defaulting to other when unset.
func (c Contact) EffectiveCategory() Category {
	if c.Category == "" {
		return CategoryOther
	}
	return c.Category
}

// ContactInput is a create/update payload. A nil field is absent: on create
// it falls back to the default, on update the stored value is preserved.
type ContactInput struct {
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	JobTitle  *string   `json:"jobTitle,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Category  *Category `json:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty"` // nil = absent, empty = clear
}

// Apply merges present fields of in over c. ID and timestamps are untouched.
func (c *Contact) Apply(in ContactInput) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.FirstName, in.FirstName)
	set(&c.LastName, in.LastName)
	set(&c.Email, in.Email)
	set(&c.Phone, in.Phone)
	set(&c.Company, in.Company)
	set(&c.JobTitle, in.JobTitle)
	set(&c.Address, in.Address)
	set(&c.Notes, in.Notes)
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.Tags != nil {
		c.Tags = append([]string{}, in.Tags...)
	}
}

// Input converts a stored contact back into a fully populated payload.
func (c Contact) Input() ContactInput {
	cat := c.Category
	tags := append([]string{}, c.Tags...)
	return ContactInput{
		FirstName: &c.FirstName,
		LastName:  &c.LastName,
		Email:     &c.Email,
		Phone:     &c.Phone,
		Company:   &c.Company,
		JobTitle:  &c.JobTitle,
		Address:   &c.Address,
		Notes:     &c.Notes,
		Category:  &cat,
		Tags:      tags,
	}
}

// Session is proof that a user is currently authenticated in this process.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"` // local part of Email
	CreatedAt time.Time `json:"createdAt"`
	Token     string    `json:"token,omitempty"` // signed HS256 JWT, subject = ID
}

// Ptr returns a pointer to v; handy for building ContactInput literals.
func Ptr[T any](v T) *T { return &v }

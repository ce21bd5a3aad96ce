// Package query derives filtered, searched and aggregated views over an
// already loaded contact collection. Every function is pure: inputs are
// never modified and results depend only on the arguments.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/and161185/contactbook/internal/model"
)

// Matches reports whether q occurs case-insensitively in any searchable
// field or tag. Phone is matched on its raw text. An empty q matches all.
func Matches(c model.Contact, q string) bool {
	q = strings.ToLower(q)
	if q == "" {
		return true
	}
	for _, f := range []string{c.FirstName, c.LastName, c.Email, c.Company, c.JobTitle, c.Notes} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	if strings.Contains(c.Phone, q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Filter keeps contacts in category (unless it is empty or CategoryAll) that
// also match search (unless it is empty). Input order is preserved.
func Filter(contacts []model.Contact, search string, category model.Category) []model.Contact {
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if category != "" && category != model.CategoryAll && c.EffectiveCategory() != category {
			continue
		}
		if search != "" && !Matches(c, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CategoryBreakdown counts contacts per category. Unset categories count as
// other; empty buckets are omitted, so the counts sum to len(contacts).
func CategoryBreakdown(contacts []model.Contact) map[model.Category]int {
	out := map[model.Category]int{}
	for _, c := range contacts {
		out[c.EffectiveCategory()]++
	}
	return out
}

// Recent returns contacts created within the last withinDays days before
// now, newest first.
func Recent(contacts []model.Contact, withinDays int, now time.Time) []model.Contact {
	cutoff := now.AddDate(0, 0, -withinDays)
	out := []model.Contact{}
	for _, c := range contacts {
		if !c.CreatedAt.Before(cutoff) && !c.CreatedAt.After(now) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// MostRecentlyUpdated returns up to limit contacts by UpdatedAt, newest first.
func MostRecentlyUpdated(contacts []model.Contact, limit int) []model.Contact {
	if limit <= 0 {
		return []model.Contact{}
	}
	out := append([]model.Contact{}, contacts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return Head(out, limit)
}

// DistinctCompanies counts unique non-empty trimmed company names.
func DistinctCompanies(contacts []model.Contact) int {
	seen := map[string]struct{}{}
	for _, c := range contacts {
		if name := strings.TrimSpace(c.Company); name != "" {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}

// Categories lists the distinct categories in use, sorted.
func Categories(contacts []model.Contact) []model.Category {
	counts := CategoryBreakdown(contacts)
	out := make([]model.Category, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Head returns a copy of the first n contacts.
func Head(contacts []model.Contact, n int) []model.Contact {
	if n > len(contacts) {
		n = len(contacts)
	}
	if n < 0 {
		n = 0
	}
	return append([]model.Contact{}, contacts[:n]...)
}

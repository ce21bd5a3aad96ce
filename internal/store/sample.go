package store

import (
	"time"

	"github.com/and161185/contactbook/internal/model"
)

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

// SampleContacts returns the demo collection used by Seed. Ids are left
// empty so Seed generates them.
func SampleContacts() []model.Contact {
	return []model.Contact{
		{
			FirstName: "John", LastName: "Doe",
			Email: "john.doe@example.com", Phone: "+1 (555) 123-4567",
			Company: "Tech Solutions Inc.", JobTitle: "Software Engineer",
			Address:  "123 Main St, New York, NY 10001",
			Notes:    "Excellent developer with React expertise",
			Category: model.CategoryWork, Tags: []string{"developer", "react", "javascript"},
			CreatedAt: day("2024-01-15"), UpdatedAt: day("2024-01-15"), LastContactDate: day("2024-06-01"),
		},
		{
			FirstName: "Sarah", LastName: "Johnson",
			Email: "sarah.johnson@email.com", Phone: "+1 (555) 987-6543",
			Company: "Marketing Pro", JobTitle: "Marketing Director",
			Address:  "456 Oak Ave, Los Angeles, CA 90210",
			Notes:    "Great contact for marketing partnerships",
			Category: model.CategoryBusiness, Tags: []string{"marketing", "partnerships"},
			CreatedAt: day("2024-02-10"), UpdatedAt: day("2024-02-10"), LastContactDate: day("2024-05-15"),
		},
		{
			FirstName: "Mike", LastName: "Wilson",
			Email: "mike.wilson@gmail.com", Phone: "+1 (555) 456-7890",
			Address:  "789 Pine St, Chicago, IL 60601",
			Notes:    "College friend, keep in touch",
			Category: model.CategoryPersonal, Tags: []string{"friend", "college"},
			CreatedAt: day("2024-03-05"), UpdatedAt: day("2024-03-05"), LastContactDate: day("2024-06-10"),
		},
	}
}

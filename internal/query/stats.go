package query

import "github.com/and161185/contactbook/internal/model"

// Stats backs the dashboard view.
type Stats struct {
	Total     int                    `json:"total"`
	Business  int                    `json:"business"`
	Personal  int                    `json:"personal"`
	WithPhone int                    `json:"withPhone"`
	Companies int                    `json:"companies"`
	Breakdown map[model.Category]int `json:"breakdown"`
}

// Summarize computes dashboard stats.
func Summarize(contacts []model.Contact) Stats {
	st := Stats{
		Total:     len(contacts),
		Companies: DistinctCompanies(contacts),
		Breakdown: CategoryBreakdown(contacts),
	}
	st.Business = st.Breakdown[model.CategoryBusiness]
	st.Personal = st.Breakdown[model.CategoryPersonal]
	for _, c := range contacts {
		if c.Phone != "" {
			st.WithPhone++
		}
	}
	return st
}

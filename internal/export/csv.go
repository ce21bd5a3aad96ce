package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/and161185/contactbook/internal/format"
	"github.com/and161185/contactbook/internal/model"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{
	"First Name", "Last Name", "Email", "Phone", "Company", "Job Title",
	"Address", "Category", "Tags", "Notes", "Created At", "Updated At",
}

// WriteCSV writes the header and one row per contact. Data fields are always
// quoted with embedded quotes doubled; encoding/csv only quotes on demand.
func WriteCSV(w io.Writer, contacts []model.Contact) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(CSVHeader, ","))
	bw.WriteByte('\n')
	for _, c := range contacts {
		row := []string{
			c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.JobTitle,
			c.Address, string(c.EffectiveCategory()), strings.Join(c.Tags, "; "), c.Notes,
			format.Date(c.CreatedAt), format.Date(c.UpdatedAt),
		}
		for i, f := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(f))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

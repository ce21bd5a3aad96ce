// Package export renders a contact collection as CSV, JSON or PDF.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/and161185/contactbook/internal/model"
)

// Format selects an export encoding.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	JSON Format = "json"
	PDF  Format = "pdf"
)

// ParseFormat accepts csv, json or pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, PDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// FileName returns contacts_YYYY-MM-DD.<ext> for the given day.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("contacts_%s.%s", now.Format("2006-01-02"), f)
}

// Write encodes contacts to w in format f. opts apply to PDF only.
func Write(w io.Writer, f Format, contacts []model.Contact, opts ...PDFOption) error {
	switch f {
	case CSV:
		return WriteCSV(w, contacts)
	case JSON:
		return WriteJSON(w, contacts)
	case PDF:
		return WritePDF(w, contacts, opts...)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteJSON writes the collection pretty-printed with the stored field names.
func WriteJSON(w io.Writer, contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(contacts)
}

package export

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/and161185/contactbook/internal/format"
	"github.com/and161185/contactbook/internal/model"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfUTF8Family = "contact"
)

type pdfConfig struct {
	fontFile string
}

// PDFOption customizes PDF output.
type PDFOption func(*pdfConfig)

// WithUTF8Font renders text with the TrueType font at path, so any script
// the font covers prints correctly. Without it the core Helvetica font is
// used and text outside cp1252 is lost.
func WithUTF8Font(path string) PDFOption { return func(c *pdfConfig) { c.fontFile = path } }

// WritePDF renders one section per contact: the full name as a heading and
// then the non-empty fields. Pages break automatically.
func WritePDF(w io.Writer, contacts []model.Contact, opts ...PDFOption) error {
	var cfg pdfConfig
	for _, o := range opts {
		o(&cfg)
	}
	return buildPDF(contacts, cfg).Output(w)
}

func buildPDF(contacts []model.Contact, cfg pdfConfig) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)

	family := "Helvetica"
	tr := doc.UnicodeTranslatorFromDescriptor("")
	if cfg.fontFile != "" {
		family = pdfUTF8Family
		doc.AddUTF8Font(family, "", cfg.fontFile)
		doc.AddUTF8Font(family, "B", cfg.fontFile)
		tr = func(s string) string { return s }
	}
	if doc.Err() {
		return doc
	}

	doc.AddPage()
	doc.SetFont(family, "B", 18)
	doc.CellFormat(0, 10, "Contacts", "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, c := range contacts {
		// Keep a heading together with at least its first line.
		_, pageH := doc.GetPageSize()
		if doc.GetY()+3*pdfLineHeight > pageH-pdfMargin {
			doc.AddPage()
		}
		doc.SetFont(family, "B", 13)
		doc.CellFormat(0, 8, tr(c.FullName()), "", 1, "L", false, 0, "")

		doc.SetFont(family, "", 10)
		for _, f := range pdfFields(c) {
			doc.MultiCell(0, pdfLineHeight, tr(f.label+": "+f.value), "", "L", false)
		}
		doc.Ln(4)
	}
	return doc
}

type pdfField struct{ label, value string }

// pdfFields lists present fields in display order.
func pdfFields(c model.Contact) []pdfField {
	all := []pdfField{
		{"Title", c.JobTitle},
		{"Company", c.Company},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Address", c.Address},
		{"Category", format.Capitalize(string(c.Category))},
		{"Notes", c.Notes},
	}
	out := all[:0]
	for _, f := range all {
		if f.value != "" {
			out = append(out, f)
		}
	}
	return out
}

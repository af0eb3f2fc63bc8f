package service

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"
)

// ErrNotExtractable is returned when a PDF resume has no pages or yields
// no extractable text on any page (commonly a scanned image export),
// short-circuiting straight to a FAILED parsing status before paying the
// subprocess round trip.
var ErrNotExtractable = errors.New("pdf has no extractable text")

const pdfMagic = "%PDF-"

// looksLikePDF sniffs the leading bytes of an uploaded file.
func looksLikePDF(head []byte) bool {
	return bytes.HasPrefix(head, []byte(pdfMagic))
}

// checkPDFExtractable opens filePath with ledongthuc/pdf and verifies it
// has at least one page with extractable plain text. Non-PDF files skip
// this check entirely; it only guards the common scanned-resume failure
// mode the external parser can't usefully recover from either.
func checkPDFExtractable(filePath string) error {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return ErrNotExtractable
	}
	defer f.Close()

	totalPages := r.NumPage()
	if totalPages == 0 {
		return ErrNotExtractable
	}

	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= totalPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err == nil && len(bytes.TrimSpace([]byte(text))) > 0 {
			return nil
		}
	}
	return ErrNotExtractable
}

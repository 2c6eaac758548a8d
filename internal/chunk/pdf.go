package chunk

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText pulls plain text out of a PDF file, one page at a time.
// Pages are joined with a visible divider so chunk text stays debuggable.
// onProgress, if non-nil, is called after each extracted page.
func ExtractPDFText(path string, onProgress func(page, total int)) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	total := r.NumPage()
	var b strings.Builder

	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document
			continue
		}

		pageText := strings.TrimSpace(collapseSpaces(text))
		b.WriteString(fmt.Sprintf("\n\n--- Page %d ---\n", i))
		b.WriteString(pageText)

		if onProgress != nil {
			onProgress(i, total)
		}
	}

	return strings.TrimSpace(b.String()), total, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

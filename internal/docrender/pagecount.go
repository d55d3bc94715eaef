package docrender

import (
	"bytes"

	"github.com/ledongthuc/pdf"
)

// pdfPageCount reads the page count out of a rendered PDF. Metadata only;
// an unreadable document reports zero pages rather than failing the render.
func pdfPageCount(data []byte) int {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return reader.NumPage()
}

package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	pdfFontSize = 11
	pdfLeading  = 16
	pdfMarginX  = 56
	pdfTopY     = 790
)

var pdfEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

// buildSimplePayslipPDF writes a single A4 page of Helvetica text lines, one
// per row. It has no layout engine; payslips are short.
func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("payslip has no content")
	}

	var text strings.Builder
	fmt.Fprintf(&text, "BT\n/F1 %d Tf\n%d TL\n%d %d Td\n", pdfFontSize, pdfLeading, pdfMarginX, pdfTopY)
	for i, line := range lines {
		if i > 0 {
			text.WriteString("T* ")
		}
		fmt.Fprintf(&text, "(%s) Tj\n", pdfEscaper.Replace(line))
	}
	text.WriteString("ET")
	stream := text.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xref)

	return buf.Bytes(), nil
}

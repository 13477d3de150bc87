// Package report renders itemization results as printable documents.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

var (
	headerColor       = [3]int{40, 40, 40}
	headerTextColor   = [3]int{255, 255, 255}
	sectionTitleColor = [3]int{0, 0, 0}
	bodyTextColor     = [3]int{50, 50, 50}
	lineColor         = [3]int{200, 200, 200}
	failColor         = [3]int{192, 0, 0}
	passColor         = [3]int{0, 128, 0}
)

// RenderPDF writes an A4 itemization summary of result to w.
func RenderPDF(w io.Writer, result model.ItemizationResult) error {
	pdf := newDocument(result, time.Now())
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

func newDocument(result model.ItemizationResult, generated time.Time) *gofpdf.Fpdf {
	inv := result.InvoiceDetails
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated %s", generated.Format("2006-01-02 15:04"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	section := func(title string) {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
	}

	table := func(widths []float64, header []string, rows [][]string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		for i, h := range header {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 7, tr(h), "B", 0, align, false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for n, row := range rows {
			fill := n%2 == 1
			pdf.SetFillColor(245, 245, 245)
			for i, cell := range row {
				align := "L"
				if i > 0 {
					align = "R"
				}
				pdf.CellFormat(widths[i], 6, tr(cell), "", 0, align, fill, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+inv.HotelName), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	subtitle := fmt.Sprintf("  %s - %s  |  %d night(s)",
		inv.CheckIn.Format("Jan 2, 2006"), inv.CheckOut.Format("Jan 2, 2006"), result.Nights)
	if inv.InvoiceNumber != "" {
		subtitle = fmt.Sprintf("  Invoice %s  |", inv.InvoiceNumber) + subtitle
	}
	pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")

	section("Summary")
	pdf.SetFont("Arial", "", 10)
	summary := [][2]string{
		{"Location", inv.Location},
		{"Currency", inv.Currency},
		{"Original total", model.FormatAmount(inv.Currency, result.TotalOriginal)},
		{"Itemized total", model.FormatAmount(inv.Currency, result.TotalItemized)},
	}
	for _, kv := range summary {
		if kv[1] == "" {
			continue
		}
		pdf.CellFormat(45, 6, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(kv[1]), "", 1, "L", false, 0, "")
	}

	status, color := "Passed", passColor
	if !result.ValidationPassed {
		status, color = "Failed", failColor
	}
	pdf.CellFormat(45, 6, "Validation", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.CellFormat(0, 6, status, "", 1, "L", false, 0, "")
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])

	section("Consolidated Categories")
	catRows := make([][]string, 0, len(result.ConsolidatedCategories))
	for _, c := range result.ConsolidatedCategories {
		catRows = append(catRows, []string{
			c.Category.String(),
			c.Category.Kind().String(),
			fmt.Sprintf("%d", len(c.SourceItems)),
			fmt.Sprintf("%d", c.Quantity),
			c.DailyRate.StringFixed(2),
			c.TotalAmount.StringFixed(2),
		})
	}
	table([]float64{60, 26, 22, 22, 30, 30},
		[]string{"Category", "Kind", "Items", "Qty", "Daily Rate", "Total"}, catRows)

	section("Itemization Entries")
	entryRows := make([][]string, 0, len(result.Entries))
	for _, e := range result.Entries {
		entryRows = append(entryRows, []string{
			e.Subcategory.String(),
			e.StartDate.Format("2006-01-02"),
			fmt.Sprintf("%d", e.Quantity),
			e.DailyRate.StringFixed(2),
			e.TotalAmount.StringFixed(2),
		})
	}
	table([]float64{70, 32, 22, 33, 33},
		[]string{"Subcategory", "Start Date", "Qty", "Daily Rate", "Total"}, entryRows)

	return pdf
}

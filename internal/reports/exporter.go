package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// table is the format-neutral shape every report is rendered from.
type table struct {
	title   string
	headers []string
	widths  []float64 // PDF column widths in mm, landscape A4
	rows    [][]string
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func submissionTable(rows []SubmissionRow) table {
	t := table{
		title:   "Business Submissions Report",
		headers: []string{"ID", "Name", "Email", "Phone", "Category", "Zone", "Status", "Submitted At", "Reviewed At", "Reviewed By", "Rejection Reason"},
		widths:  []float64{12, 35, 40, 25, 25, 22, 18, 30, 30, 22, 18},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Email,
			r.Phone,
			r.CategoryName,
			r.ZoneName,
			r.Status,
			formatTime(r.SubmittedAt),
			formatTimePtr(r.ReviewedAt),
			r.ReviewedBy,
			r.RejectionReason,
		})
	}
	return t
}

func businessTable(rows []BusinessRow) table {
	t := table{
		title:   "Business Listings Report",
		headers: []string{"ID", "Name", "Email", "Phone", "Category", "Zone", "Plan", "Plan Expires", "Active", "Verified", "Featured", "Created At"},
		widths:  []float64{12, 35, 40, 25, 22, 22, 20, 30, 13, 15, 15, 28},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Email,
			r.Phone,
			r.CategoryName,
			r.ZoneName,
			r.PlanName,
			formatTimePtr(r.PlanExpiresAt),
			yesNo(r.IsActive),
			yesNo(r.IsVerified),
			yesNo(r.Featured),
			formatTime(r.CreatedAt),
		})
	}
	return t
}

// export renders t as format. The file name is prefixed by name and stamped
// with ts.
func export(name, format string, t table, ts time.Time) (*File, error) {
	stamp := ts.Format("20060102_150405")
	switch format {
	case FormatCSV:
		data, err := exportCSV(t)
		if err != nil {
			return nil, err
		}
		return &File{Name: fmt.Sprintf("%s_report_%s.csv", name, stamp), ContentType: "text/csv", Data: data}, nil
	case FormatExcel:
		data, err := exportExcel(t)
		if err != nil {
			return nil, err
		}
		return &File{
			Name:        fmt.Sprintf("%s_report_%s.xlsx", name, stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := exportPDF(t)
		if err != nil {
			return nil, err
		}
		return &File{Name: fmt.Sprintf("%s_report_%s.pdf", name, stamp), ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.headers); err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range t.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return nil, err
		}
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(t table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, t.title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 8)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range t.rows {
		for i, v := range row {
			pdf.CellFormat(t.widths[i], 6, tr(clip(v, t.widths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clip shortens v so it fits a cell of width mm at the body font size.
func clip(v string, width float64) string {
	max := int(width / 1.6)
	r := []rune(v)
	if len(r) <= max || max < 4 {
		return v
	}
	return string(r[:max-3]) + "..."
}

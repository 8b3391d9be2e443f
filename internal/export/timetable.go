package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/session"
)

// Sheet names and cell markers.
const (
	SessionsSheet = "sessions"
	TimelineSheet = "timeline"

	OpenMark     = "OPEN"
	VolatileMark = "VOLATILE"
)

// Content types for HTTP responses.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

var sessionHeader = []string{"ID", "Name", "Region", "Open", "Close", "Duration (h)", "Pairs"}

// Row is one session line of the timetable.
type Row struct {
	ID       string
	Name     string
	Region   string
	Open     string
	Close    string
	Duration float64
	Pairs    string
}

// Rows flattens the session table.
func Rows(sessions []model.Session) []Row {
	rows := make([]Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, Row{
			ID:       s.ID,
			Name:     s.Name,
			Region:   s.Region,
			Open:     fmt.Sprintf("%02d:00", s.Open),
			Close:    fmt.Sprintf("%02d:00", s.Close),
			Duration: session.Duration(s),
			Pairs:    strings.Join(s.CurrencyPairs, ", "),
		})
	}
	return rows
}

// Timeline returns 24 rows of hour label, one OPEN/blank cell per session,
// then the volatility marker.
func Timeline(sessions []model.Session, windows []model.Window) [][]string {
	out := make([][]string, session.HoursPerDay)
	for h := range out {
		now := float64(h)
		row := make([]string, 0, len(sessions)+2)
		row = append(row, fmt.Sprintf("%02d:00", h))
		for _, s := range sessions {
			mark := ""
			if session.IsOpen(s, now) {
				mark = OpenMark
			}
			row = append(row, mark)
		}
		mark := ""
		if session.InWindows(windows, now) {
			mark = VolatileMark
		}
		out[h] = append(row, mark)
	}
	return out
}

func timelineHeader(sessions []model.Session) []string {
	header := make([]string, 0, len(sessions)+2)
	header = append(header, "Hour (UTC)")
	for _, s := range sessions {
		header = append(header, s.Name)
	}
	return append(header, "Volatility")
}

// TimetableXLSX renders the timetable workbook.
func TimetableXLSX(sessions []model.Session, windows []model.Window) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SessionsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(TimelineSheet); err != nil {
		return nil, fmt.Errorf("create timeline sheet: %w", err)
	}

	if err := f.SetSheetRow(SessionsSheet, "A1", &sessionHeader); err != nil {
		return nil, err
	}
	for i, r := range Rows(sessions) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{r.ID, r.Name, r.Region, r.Open, r.Close, r.Duration, r.Pairs}
		if err := f.SetSheetRow(SessionsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write session %s: %w", r.ID, err)
		}
	}

	header := timelineHeader(sessions)
	if err := f.SetSheetRow(TimelineSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range Timeline(sessions, windows) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(TimelineSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write timeline hour %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TimetablePDF renders the timetable as a two-table A4 landscape document.
func TimetablePDF(sessions []model.Session, windows []model.Window) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Forex Session Timetable (UTC)")
	pdf.Ln(12)

	widths := []float64{25, 30, 35, 20, 20, 25, 110}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range sessionHeader {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, r := range Rows(sessions) {
		pdf.CellFormat(widths[0], 6, r.ID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Region, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.Open, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.Close, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%g", r.Duration), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.Pairs, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Hourly timeline")
	pdf.Ln(10)

	header := timelineHeader(sessions)
	colW := 250.0 / float64(len(header))
	pdf.SetFont("Arial", "B", 8)
	for _, h := range header {
		pdf.CellFormat(colW, 5, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 8)
	pdf.SetFillColor(245, 158, 11)
	for _, row := range Timeline(sessions, windows) {
		for i, v := range row {
			fill := v != "" && i > 0
			pdf.CellFormat(colW, 5, v, "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Package excel renders timesheet reports as a single-sheet workbook.
package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/report"
)

// ErrNilDocument is returned when Render is called without a document.
var ErrNilDocument = errors.New("excel: nil document")

const (
	sheetName = "Timesheet Report"

	// Columns A..H; the letterhead text starts at C so the logo owns A1:B4.
	lastCol      = 8
	logoCell     = "A1"
	logoEndCell  = "B4"
	companyCol   = 3
	firstBodyRow = 6
)

// maxColWidths clamps autosized widths, indexed by column number - 1.
var maxColWidths = [lastCol]float64{28, 32, 14, 14, 14, 40, 14, 14}

var weekdayLabels = [report.WorkDays]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Config controls optional assets. Missing assets degrade, never fail.
type Config struct {
	// FontFamily becomes the workbook default font when set.
	FontFamily string
}

// Renderer writes report documents as xlsx workbooks.
type Renderer struct {
	cfg    Config
	logger *zap.Logger
}

// NewRenderer creates a spreadsheet renderer
func NewRenderer(cfg Config, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// ContentType is the MIME type of the rendered output
func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension is the file extension of the rendered output
func (r *Renderer) Extension() string {
	return "xlsx"
}

// Render builds the workbook for doc and writes it to w.
func (r *Renderer) Render(ctx context.Context, doc *report.Document, w io.Writer) error {
	if doc == nil {
		return ErrNilDocument
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if r.cfg.FontFamily != "" {
		if err := f.SetDefaultFont(r.cfg.FontFamily); err != nil {
			r.logger.Warn("Failed to set workbook font, keeping default",
				zap.String("font_family", r.cfg.FontFamily),
				zap.Error(err))
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.Meta.Title,
		Creator: doc.Meta.Company.Name,
	}); err != nil {
		r.logger.Warn("Failed to set workbook properties", zap.Error(err))
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	sw := &sheetWriter{
		f:      f,
		sheet:  sheetName,
		st:     st,
		doc:    doc,
		logger: r.logger,
		row:    1,
	}

	sw.writeCompanyHeader()
	sw.writeTitleBlock()

	if doc.Empty() {
		sw.writeNotice("No timesheet data matched the selected filters.")
	}
	for _, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("excel render aborted: %w", err)
		}
		switch doc.Meta.Kind {
		case report.KindWeekly:
			sw.writeWeeklySection(section)
		default:
			sw.writeDetailedSection(section)
		}
	}
	sw.writeSummary(doc.Summary)
	sw.applyColumnWidths()

	if sw.err != nil {
		return fmt.Errorf("failed to build workbook: %w", sw.err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("excel render aborted: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetWriter appends blocks top to bottom and keeps the first error.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	st     *styles
	doc    *report.Document
	logger *zap.Logger
	row    int
	widths [lastCol]float64
	err    error
}

func (w *sheetWriter) fail(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *sheetWriter) set(col, row int, value interface{}, style int) {
	ref := cell(col, row)
	w.fail(w.f.SetCellValue(w.sheet, ref, value))
	w.fail(w.f.SetCellStyle(w.sheet, ref, ref, style))
}

// setTracked writes a table cell and records its width for autosizing.
func (w *sheetWriter) setTracked(col, row int, value interface{}, display string, style int) {
	w.set(col, row, value, style)
	if n := float64(utf8.RuneCountInString(display)) + 2; n > w.widths[col-1] {
		w.widths[col-1] = n
	}
}

func (w *sheetWriter) merge(fromCol, toCol, row int, value interface{}, style int) {
	w.fail(w.f.MergeCell(w.sheet, cell(fromCol, row), cell(toCol, row)))
	w.fail(w.f.SetCellValue(w.sheet, cell(fromCol, row), value))
	w.fail(w.f.SetCellStyle(w.sheet, cell(fromCol, row), cell(toCol, row), style))
}

func (w *sheetWriter) writeCompanyHeader() {
	company := w.doc.Meta.Company

	if company.LogoPath != "" {
		w.fail(w.f.MergeCell(w.sheet, logoCell, logoEndCell))
		if _, err := os.Stat(company.LogoPath); err != nil {
			w.logger.Warn("Company logo not found, rendering without it",
				zap.String("logo_path", company.LogoPath), zap.Error(err))
		} else if err := w.f.AddPicture(w.sheet, logoCell, company.LogoPath, &excelize.GraphicOptions{
			AutoFit:         true,
			LockAspectRatio: true,
			Positioning:     "oneCell",
			AltText:         company.Name,
		}); err != nil {
			w.logger.Warn("Company logo could not be embedded, rendering without it",
				zap.String("logo_path", company.LogoPath), zap.Error(err))
		}
	}

	w.merge(companyCol, lastCol, 1, company.Name, w.st.company)
	w.fail(w.f.SetRowHeight(w.sheet, 1, 22))
	for i, line := range company.Address {
		if i >= 3 {
			break
		}
		w.merge(companyCol, lastCol, 2+i, line, w.st.address)
	}
	w.row = firstBodyRow
}

func (w *sheetWriter) writeTitleBlock() {
	meta := w.doc.Meta
	w.merge(1, lastCol, w.row, meta.Title, w.st.title)
	w.fail(w.f.SetRowHeight(w.sheet, w.row, 24))
	w.row++
	if meta.Subtitle != "" {
		w.merge(1, lastCol, w.row, meta.Subtitle, w.st.subtitle)
		w.row++
	}
	w.merge(1, lastCol, w.row, "Period: "+meta.Period.String(), w.st.subtitle)
	w.row += 2
}

func (w *sheetWriter) writeNotice(text string) {
	w.merge(1, lastCol, w.row, text, w.st.notice)
	w.row += 2
}

func (w *sheetWriter) writeSectionHeading(section report.Section) {
	heading := section.Name
	if section.Email != "" {
		heading += " <" + section.Email + ">"
	}
	w.merge(1, lastCol, w.row, heading, w.st.section)
	w.fail(w.f.SetRowHeight(w.sheet, w.row, 20))
	w.row += 2
}

func (w *sheetWriter) writeHeaderRow(labels []string) {
	for i, label := range labels {
		w.setTracked(i+1, w.row, label, label, w.st.header)
	}
	w.row++
}

// writeHours writes a numeric hours cell; zero stays blank unless keepZero.
func (w *sheetWriter) writeHours(col int, v float64, style int, keepZero bool) {
	if v == 0 && !keepZero {
		w.setTracked(col, w.row, "", "", style)
		return
	}
	w.setTracked(col, w.row, report.Round2(v), report.FormatTotal(v), style)
}

func (w *sheetWriter) writeDetailedSection(section report.Section) {
	w.writeSectionHeading(section)
	if len(section.Tables) == 0 {
		w.writeNotice("No timesheet entries for this period.")
		return
	}
	for _, table := range section.Tables {
		w.writeSubTable(table)
	}
	w.writeWorkingHours(section)
}

func (w *sheetWriter) writeSubTable(table report.SubTable) {
	labels := []string{"Week"}
	if table.ShowWork {
		labels = append(labels, "Work")
	}
	labels = append(labels, weekdayLabels[:]...)
	labels = append(labels, "Total")

	w.merge(1, len(labels), w.row, table.Title, w.st.tableTitle)
	w.row++
	w.writeHeaderRow(labels)

	for i, r := range table.Rows {
		textStyle, hoursStyle := w.st.text, w.st.hours
		if i%2 == 1 {
			textStyle, hoursStyle = w.st.textShaded, w.st.hoursShaded
		}
		col := 1
		week := formatWeek(r.WeekStart, r.WeekEnd)
		w.setTracked(col, w.row, week, week, textStyle)
		col++
		if table.ShowWork {
			w.setTracked(col, w.row, r.Work, r.Work, textStyle)
			col++
		}
		for _, h := range r.Hours {
			w.writeHours(col, h, hoursStyle, false)
			col++
		}
		w.writeHours(col, r.Total, hoursStyle, true)
		w.row++
	}

	col := 1
	w.setTracked(col, w.row, "Total", "Total", w.st.totalText)
	col++
	if table.ShowWork {
		w.setTracked(col, w.row, "", "", w.st.totalText)
		col++
	}
	for _, h := range table.WeekdayTotals() {
		w.writeHours(col, h, w.st.totalHours, false)
		col++
	}
	w.writeHours(col, table.Total(), w.st.totalHours, true)
	w.row += 2
}

func (w *sheetWriter) writeWorkingHours(section report.Section) {
	labels := append([]string{"Working Hours"}, weekdayLabels[:]...)
	labels = append(labels, "Total")
	w.writeHeaderRow(labels)

	w.setTracked(1, w.row, "All categories", "All categories", w.st.totalText)
	for d, h := range section.WeekdayTotals {
		w.writeHours(2+d, h, w.st.totalHours, true)
	}
	w.writeHours(2+report.WorkDays, section.TotalHours, w.st.totalHours, true)
	w.row += 2
}

func (w *sheetWriter) writeWeeklySection(section report.Section) {
	w.writeSectionHeading(section)
	w.writeHeaderRow([]string{"Week", "Employee", "Status", "Submitted", "Approved", "Note", "Hours"})

	for i, r := range section.Rows {
		textStyle, hoursStyle := w.st.text, w.st.hours
		if i%2 == 1 {
			textStyle, hoursStyle = w.st.textShaded, w.st.hoursShaded
		}
		values := []string{
			formatWeek(r.WeekStart, r.WeekEnd),
			r.EmployeeName,
			string(r.Status),
			formatDate(r.SubmissionDate),
			formatDate(r.ApprovalDate),
			r.RejectionReason,
		}
		for c, v := range values {
			w.setTracked(c+1, w.row, v, v, textStyle)
		}
		w.writeHours(len(values)+1, r.TotalHours, hoursStyle, true)
		w.row++
	}

	w.setTracked(1, w.row, "Total", "Total", w.st.totalText)
	for c := 2; c <= 6; c++ {
		w.setTracked(c, w.row, "", "", w.st.totalText)
	}
	w.writeHours(7, section.TotalHours, w.st.totalHours, true)
	w.row += 2
}

func (w *sheetWriter) writeSummary(s report.Summary) {
	w.merge(1, lastCol, w.row, "Overall Summary", w.st.section)
	w.row += 2
	w.writeHeaderRow([]string{"Metric", "Value"})

	counts := []struct {
		label string
		value int
	}{
		{"Employees", s.Employees},
		{"Teams", s.Teams},
		{"Projects", s.Projects},
	}
	for _, c := range counts {
		w.setTracked(1, w.row, c.label, c.label, w.st.text)
		w.setTracked(2, w.row, c.value, fmt.Sprintf("%d", c.value), w.st.count)
		w.row++
	}

	w.setTracked(1, w.row, "Absence Days", "Absence Days", w.st.text)
	w.writeHours(2, s.AbsenceDays, w.st.hours, true)
	w.row++
	w.setTracked(1, w.row, "Total Hours", "Total Hours", w.st.totalText)
	w.writeHours(2, s.TotalHours, w.st.totalHours, true)
	w.row++
}

// applyColumnWidths sets autosized widths clamped by maxColWidths.
func (w *sheetWriter) applyColumnWidths() {
	for i, width := range w.widths {
		if width == 0 {
			continue
		}
		width = min(max(width, 8), maxColWidths[i])
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.fail(err)
			continue
		}
		w.fail(w.f.SetColWidth(w.sheet, name, name, width))
	}
}

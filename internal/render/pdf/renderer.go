// Package pdf renders timesheet reports as paginated A4 documents.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/garyjia/timesheet-reports/internal/report"
)

// ErrNilDocument is returned when Render is called without a document.
var ErrNilDocument = errors.New("pdf: nil document")

// Page geometry in points (A4 portrait).
const (
	marginX        = 40.0
	marginBottom   = 30.0
	footerReserve  = 24.0
	contentTop     = 110.0
	headerRuleY    = 96.0
	logoHeight     = 48.0
	rowHeight      = 16.0
	titleRowHeight = 18.0
	sectionGap     = 12.0

	// minFooterContent is the least content the final page needs for a footer.
	minFooterContent = 50.0

	fallbackFont = "Helvetica"
	bodyFont     = "body"
)

var weekdayLabels = [report.WorkDays]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Config controls optional assets. Missing assets degrade, never fail.
type Config struct {
	// FontPath is a TTF font used for all text; Helvetica when empty or unusable.
	FontPath string
	// Compress toggles stream compression of page content.
	Compress bool
}

// Renderer writes report documents as PDF.
type Renderer struct {
	cfg    Config
	logger *zap.Logger
}

// NewRenderer creates a PDF renderer
func NewRenderer(cfg Config, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// ContentType is the MIME type of the rendered output
func (r *Renderer) ContentType() string {
	return "application/pdf"
}

// Extension is the file extension of the rendered output
func (r *Renderer) Extension() string {
	return "pdf"
}

// Render draws doc and writes the finished PDF to w.
func (r *Renderer) Render(ctx context.Context, doc *report.Document, w io.Writer) error {
	if doc == nil {
		return ErrNilDocument
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.cfg.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, marginX, marginX)
	pdf.AliasNbPages("")
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetCreator(doc.Meta.Company.Name, true)
	if !doc.Meta.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.Meta.GeneratedAt)
	}

	dw := &writer{
		pdf:    pdf,
		doc:    doc,
		logger: r.logger,
	}
	dw.setupFont(r.cfg.FontPath)
	dw.setupLogo(doc.Meta.Company.LogoPath)

	dw.flow = NewPageFlowController(pdf, dw, FlowConfig{
		Margin:        marginBottom,
		FooterReserve: footerReserve,
		ContentTop:    contentTop,
	})
	dw.flow.Begin()
	dw.drawTitleBlock()

	if doc.Empty() {
		dw.drawNotice("No timesheet data matched the selected filters.")
	}
	for i, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pdf render aborted: %w", err)
		}
		if i > 0 && section.MixedCategories() {
			dw.flow.ForceBreak()
		}
		switch doc.Meta.Kind {
		case report.KindWeekly:
			dw.drawWeeklySection(section)
		default:
			dw.drawDetailedSection(section)
		}
	}
	dw.drawSummary(doc.Summary)
	dw.flow.Finish(minFooterContent)

	if pdf.Err() {
		return fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pdf render aborted: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// writer holds the per-render drawing state.
type writer struct {
	pdf       *fpdf.Fpdf
	doc       *report.Document
	flow      *PageFlowController
	logger    *zap.Logger
	font      string
	translate func(string) string
	logoPath  string
	shade     bool
}

func (w *writer) setupFont(path string) {
	w.font = fallbackFont
	w.translate = w.pdf.UnicodeTranslatorFromDescriptor("")
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		w.logger.Warn("PDF font not found, falling back to Helvetica", zap.String("font_path", path), zap.Error(err))
		return
	}
	w.pdf.AddUTF8Font(bodyFont, "", path)
	w.pdf.AddUTF8Font(bodyFont, "B", path)
	if w.pdf.Err() {
		w.logger.Warn("PDF font could not be loaded, falling back to Helvetica",
			zap.String("font_path", path),
			zap.Error(w.pdf.Error()))
		w.pdf.ClearError()
		return
	}
	w.font = bodyFont
	w.translate = func(s string) string { return s }
}

func (w *writer) setupLogo(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		w.logger.Warn("Company logo not found, rendering without it", zap.String("logo_path", path), zap.Error(err))
		return
	}
	w.pdf.RegisterImageOptions(path, fpdf.ImageOptions{ReadDpi: true})
	if w.pdf.Err() {
		w.logger.Warn("Company logo could not be decoded, rendering without it",
			zap.String("logo_path", path),
			zap.Error(w.pdf.Error()))
		w.pdf.ClearError()
		return
	}
	w.logoPath = path
}

// DrawHeader implements PageDecorator
func (w *writer) DrawHeader(pdf *fpdf.Fpdf, page int) {
	pageW, _ := pdf.GetPageSize()
	company := w.doc.Meta.Company

	textX := marginX
	if w.logoPath != "" {
		pdf.ImageOptions(w.logoPath, marginX, 36, 0, logoHeight, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		textX = marginX + logoHeight*2 + 10
	}

	pdf.SetTextColor(31, 78, 120)
	pdf.SetFont(w.font, "B", 14)
	pdf.SetXY(textX, 36)
	pdf.CellFormat(pageW-marginX-textX, 16, w.translate(company.Name), "", 2, "R", false, 0, "")

	pdf.SetTextColor(90, 90, 90)
	pdf.SetFont(w.font, "", 8)
	for _, line := range company.Address {
		pdf.SetX(textX)
		pdf.CellFormat(pageW-marginX-textX, 10, w.translate(line), "", 2, "R", false, 0, "")
	}

	pdf.SetDrawColor(31, 78, 120)
	pdf.SetLineWidth(1)
	pdf.Line(marginX, headerRuleY, pageW-marginX, headerRuleY)
	pdf.SetLineWidth(0.5)
	pdf.SetTextColor(0, 0, 0)
}

// DrawFooter implements PageDecorator
func (w *writer) DrawFooter(pdf *fpdf.Fpdf, page int) {
	pageW, pageH := pdf.GetPageSize()
	y := pageH - marginBottom - footerReserve + 8

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(marginX, y, pageW-marginX, y)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont(w.font, "", 8)
	pdf.SetXY(marginX, y+4)

	generated := w.doc.Meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	half := (pageW - 2*marginX) / 2
	pdf.CellFormat(half, 10, w.translate("Generated "+generated.Format("2006-01-02 15:04")), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 10, fmt.Sprintf("Page %d of {nb}", page), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	return pageW - 2*marginX
}

func (w *writer) drawTitleBlock() {
	meta := w.doc.Meta
	w.pdf.SetFont(w.font, "B", 16)
	w.pdf.CellFormat(w.contentWidth(), 20, w.translate(meta.Title), "", 1, "L", false, 0, "")
	w.pdf.SetFont(w.font, "", 10)
	if meta.Subtitle != "" {
		w.pdf.CellFormat(w.contentWidth(), 14, w.translate(meta.Subtitle), "", 1, "L", false, 0, "")
	}
	w.pdf.CellFormat(w.contentWidth(), 14, w.translate("Period: "+meta.Period.String()), "", 1, "L", false, 0, "")
	w.pdf.Ln(sectionGap)
}

func (w *writer) drawNotice(text string) {
	w.flow.CheckPageBreak(rowHeight * 2)
	w.pdf.SetFont(w.font, "", 10)
	w.pdf.SetTextColor(120, 120, 120)
	w.pdf.CellFormat(w.contentWidth(), rowHeight*2, w.translate(text), "", 1, "C", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *writer) drawSectionHeading(section report.Section) {
	w.flow.CheckPageBreak(titleRowHeight + rowHeight*3)
	w.pdf.SetFont(w.font, "B", 12)
	w.pdf.SetTextColor(31, 78, 120)
	heading := section.Name
	if section.Email != "" {
		heading += " <" + section.Email + ">"
	}
	w.pdf.CellFormat(w.contentWidth(), titleRowHeight, w.translate(heading), "B", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(4)
}

func (w *writer) drawDetailedSection(section report.Section) {
	w.drawSectionHeading(section)
	if len(section.Tables) == 0 {
		w.drawNotice("No timesheet entries for this period.")
		w.pdf.Ln(sectionGap)
		return
	}
	for _, table := range section.Tables {
		w.drawSubTable(table)
		w.pdf.Ln(sectionGap)
	}
	w.drawWorkingHours(section)
	w.pdf.Ln(sectionGap)
}

type column struct {
	label string
	width float64
	align string
}

func (w *writer) subTableColumns(showWork bool) []column {
	cols := []column{{label: "Week", width: 150, align: "L"}}
	day := 55.0
	total := 90.0
	if showWork {
		cols[0].width = 120
		cols = append(cols, column{label: "Work", width: 105, align: "L"})
		day, total = 48, 50
	}
	for _, label := range weekdayLabels {
		cols = append(cols, column{label: label, width: day, align: "R"})
	}
	cols = append(cols, column{label: "Total", width: total, align: "R"})
	return cols
}

func (w *writer) drawColumnHeaders(cols []column) {
	w.pdf.SetFont(w.font, "B", 9)
	w.pdf.SetFillColor(31, 78, 120)
	w.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		w.pdf.CellFormat(c.width, rowHeight, w.translate(c.label), "1", ln, c.align, true, 0, "")
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.shade = false
}

func (w *writer) drawRow(cols []column, values []string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	w.pdf.SetFont(w.font, style, 9)
	if w.shade {
		w.pdf.SetFillColor(242, 246, 250)
	} else {
		w.pdf.SetFillColor(255, 255, 255)
	}
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		w.pdf.CellFormat(c.width, rowHeight, w.fit(values[i], c.width-4), "1", ln, c.align, true, 0, "")
	}
	w.shade = !w.shade
}

// fit trims s with an ellipsis until it fits width, then translates it.
func (w *writer) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(w.translate(s)) <= width {
		return w.translate(s)
	}
	runes := []rune(s)
	for len(runes) > 0 && w.pdf.GetStringWidth(w.translate(string(runes)+"...")) > width {
		runes = runes[:len(runes)-1]
	}
	return w.translate(string(runes) + "...")
}

func (w *writer) drawTableTitle(title string) {
	w.pdf.SetFont(w.font, "B", 10)
	w.pdf.CellFormat(w.contentWidth(), titleRowHeight, w.translate(title), "", 1, "L", false, 0, "")
}

// drawSubTable draws one sub-table. Column headers repeat at the top of
// every continuation page.
func (w *writer) drawSubTable(table report.SubTable) {
	cols := w.subTableColumns(table.ShowWork)

	w.flow.CheckPageBreak(titleRowHeight + rowHeight*2)
	w.drawTableTitle(table.Title)
	w.drawColumnHeaders(cols)

	for _, row := range table.Rows {
		if w.flow.CheckPageBreak(rowHeight) {
			w.drawTableTitle(table.Title + " (continued)")
			w.drawColumnHeaders(cols)
		}
		values := []string{formatWeek(row.WeekStart, row.WeekEnd)}
		if table.ShowWork {
			values = append(values, row.Work)
		}
		for _, cell := range row.Cells() {
			values = append(values, cell)
		}
		values = append(values, report.FormatTotal(row.Total))
		w.drawRow(cols, values, false)
	}

	if w.flow.CheckPageBreak(rowHeight) {
		w.drawTableTitle(table.Title + " (continued)")
		w.drawColumnHeaders(cols)
	}
	totals := table.WeekdayTotals()
	values := []string{"Total"}
	if table.ShowWork {
		values = append(values, "")
	}
	for _, h := range totals {
		values = append(values, report.FormatHours(h))
	}
	values = append(values, report.FormatTotal(table.Total()))
	w.shade = false
	w.drawRow(cols, values, true)
}

func (w *writer) drawWorkingHours(section report.Section) {
	cols := make([]column, 0, report.WorkDays+2)
	cols = append(cols, column{label: "Working Hours", width: 150, align: "L"})
	for _, label := range weekdayLabels {
		cols = append(cols, column{label: label, width: 55, align: "R"})
	}
	cols = append(cols, column{label: "Total", width: 90, align: "R"})

	w.flow.CheckPageBreak(rowHeight * 2)
	w.drawColumnHeaders(cols)
	values := []string{"All categories"}
	for _, h := range section.WeekdayTotals {
		values = append(values, report.FormatTotal(h))
	}
	values = append(values, report.FormatTotal(section.TotalHours))
	w.drawRow(cols, values, true)
}

func (w *writer) drawWeeklySection(section report.Section) {
	w.drawSectionHeading(section)
	cols := []column{
		{label: "Week", width: 120, align: "L"},
		{label: "Employee", width: 95, align: "L"},
		{label: "Status", width: 60, align: "C"},
		{label: "Submitted", width: 65, align: "C"},
		{label: "Approved", width: 65, align: "C"},
		{label: "Note", width: 60, align: "L"},
		{label: "Hours", width: 50, align: "R"},
	}

	w.flow.CheckPageBreak(rowHeight * 2)
	w.drawColumnHeaders(cols)
	for _, row := range section.Rows {
		if w.flow.CheckPageBreak(rowHeight) {
			w.drawColumnHeaders(cols)
		}
		w.drawRow(cols, []string{
			formatWeek(row.WeekStart, row.WeekEnd),
			row.EmployeeName,
			string(row.Status),
			formatDate(row.SubmissionDate),
			formatDate(row.ApprovalDate),
			row.RejectionReason,
			report.FormatTotal(row.TotalHours),
		}, false)
	}
	if w.flow.CheckPageBreak(rowHeight) {
		w.drawColumnHeaders(cols)
	}
	w.shade = false
	w.drawRow(cols, []string{"Total", "", "", "", "", "", report.FormatTotal(section.TotalHours)}, true)
	w.pdf.Ln(sectionGap)
}

func (w *writer) drawSummary(s report.Summary) {
	lines := [][2]string{
		{"Employees", fmt.Sprintf("%d", s.Employees)},
		{"Teams", fmt.Sprintf("%d", s.Teams)},
		{"Projects", fmt.Sprintf("%d", s.Projects)},
		{"Absence Days", report.FormatTotal(s.AbsenceDays)},
		{"Total Hours", report.FormatTotal(s.TotalHours)},
	}
	w.flow.CheckPageBreak(titleRowHeight + rowHeight*float64(len(lines)+1))

	w.pdf.SetFont(w.font, "B", 12)
	w.pdf.SetTextColor(31, 78, 120)
	w.pdf.CellFormat(w.contentWidth(), titleRowHeight, w.translate("Overall Summary"), "B", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(4)

	cols := []column{{label: "Metric", width: 200, align: "L"}, {label: "Value", width: 120, align: "R"}}
	w.drawColumnHeaders(cols)
	for _, l := range lines {
		w.drawRow(cols, []string{l[0], l[1]}, l[0] == "Total Hours")
	}
}

func formatWeek(start, end time.Time) string {
	return start.Format("2006-01-02") + " - " + end.Format("01-02")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

var _ PageDecorator = (*writer)(nil)


package pdf

import (
	"github.com/go-pdf/fpdf"
)

// PageState tracks where the page lifecycle is.
type PageState int

const (
	StateNewDocument PageState = iota
	StateHeaderDrawn
	StateContentFlowing
	StateFooterPending
)

// PageDecorator draws the repeating page furniture.
type PageDecorator interface {
	DrawHeader(pdf *fpdf.Fpdf, page int)
	DrawFooter(pdf *fpdf.Fpdf, page int)
}

// FlowConfig fixes the vertical geometry of every page, in points.
type FlowConfig struct {
	// Margin is kept clear at the bottom of the page.
	Margin float64
	// FooterReserve is the band above the margin the footer draws into.
	FooterReserve float64
	// ContentTop is where content resumes after the header.
	ContentTop float64
}

// PageFlowController owns page-break decisions. Content writers ask it for
// room before drawing a block; it closes the page with a footer, opens the
// next one and redraws the header without any content in between.
type PageFlowController struct {
	pdf        *fpdf.Fpdf
	decorator  PageDecorator
	cfg        FlowConfig
	pageHeight float64
	state      PageState
}

// NewPageFlowController creates a controller over an empty document.
func NewPageFlowController(pdf *fpdf.Fpdf, decorator PageDecorator, cfg FlowConfig) *PageFlowController {
	_, h := pdf.GetPageSize()
	return &PageFlowController{
		pdf:        pdf,
		decorator:  decorator,
		cfg:        cfg,
		pageHeight: h,
		state:      StateNewDocument,
	}
}

// Begin opens the first page and draws its header.
func (c *PageFlowController) Begin() {
	if c.state != StateNewDocument {
		return
	}
	c.openPage()
}

// State returns the current lifecycle state
func (c *PageFlowController) State() PageState {
	return c.state
}

// Remaining is the vertical space left for content on the current page.
func (c *PageFlowController) Remaining() float64 {
	return c.pageHeight - c.pdf.GetY() - c.cfg.Margin - c.cfg.FooterReserve
}

// ContentHeight is how much content the current page holds.
func (c *PageFlowController) ContentHeight() float64 {
	return c.pdf.GetY() - c.cfg.ContentTop
}

// CheckPageBreak starts a new page when fewer than required points remain.
// It reports whether a break happened so callers can repeat table headers.
func (c *PageFlowController) CheckPageBreak(required float64) bool {
	if c.Remaining() >= required {
		return false
	}
	c.breakPage()
	return true
}

// ForceBreak starts a new page unless the current one is still empty.
func (c *PageFlowController) ForceBreak() bool {
	if c.ContentHeight() <= 0 {
		return false
	}
	c.breakPage()
	return true
}

// Finish closes the last page. The footer is drawn only when the page holds
// at least minContent points, so a nearly empty trailing page stays bare.
func (c *PageFlowController) Finish(minContent float64) {
	if c.state != StateContentFlowing {
		return
	}
	c.state = StateFooterPending
	if c.ContentHeight() >= minContent {
		c.decorator.DrawFooter(c.pdf, c.pdf.PageNo())
	}
}

func (c *PageFlowController) breakPage() {
	c.state = StateFooterPending
	c.decorator.DrawFooter(c.pdf, c.pdf.PageNo())
	c.openPage()
}

func (c *PageFlowController) openPage() {
	c.pdf.AddPage()
	c.state = StateNewDocument
	c.decorator.DrawHeader(c.pdf, c.pdf.PageNo())
	c.state = StateHeaderDrawn
	c.pdf.SetY(c.cfg.ContentTop)
	c.state = StateContentFlowing
}

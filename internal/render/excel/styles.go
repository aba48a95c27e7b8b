package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	colorBrand    = "1F4E78"
	colorShade    = "F2F6FA"
	colorSection  = "DDEBF7"
	colorBorder   = "BFBFBF"
	colorMuted    = "7F7F7F"
	numFmtTwoDecs = 2
)

// styles holds the style IDs registered on one workbook.
type styles struct {
	company     int
	address     int
	title       int
	subtitle    int
	section     int
	tableTitle  int
	header      int
	text        int
	textShaded  int
	hours       int
	hoursShaded int
	totalText   int
	totalHours  int
	count       int
	notice      int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: colorBorder, Style: 1},
		{Type: "right", Color: colorBorder, Style: 1},
		{Type: "top", Color: colorBorder, Style: 1},
		{Type: "bottom", Color: colorBorder, Style: 1},
	}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func newStyles(f *excelize.File) (*styles, error) {
	type def struct {
		id    *int
		style *excelize.Style
	}
	var defs []def
	s := &styles{}
	add := func(id *int, style *excelize.Style) {
		defs = append(defs, def{id: id, style: style})
	}

	add(&s.company, &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: colorBrand},
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	add(&s.address, &excelize.Style{
		Font:      &excelize.Font{Size: 9, Color: colorMuted},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	add(&s.title, &excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	add(&s.subtitle, &excelize.Style{
		Font: &excelize.Font{Size: 11, Color: colorMuted},
	})
	add(&s.section, &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: colorBrand},
		Fill:      solid(colorSection),
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	add(&s.tableTitle, &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	add(&s.header, &excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      solid(colorBrand),
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	add(&s.text, &excelize.Style{Border: thinBorder()})
	add(&s.textShaded, &excelize.Style{Border: thinBorder(), Fill: solid(colorShade)})
	add(&s.hours, &excelize.Style{Border: thinBorder(), NumFmt: numFmtTwoDecs})
	add(&s.hoursShaded, &excelize.Style{Border: thinBorder(), NumFmt: numFmtTwoDecs, Fill: solid(colorShade)})
	add(&s.totalText, &excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
	})
	add(&s.totalHours, &excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorder(),
		NumFmt: numFmtTwoDecs,
	})
	add(&s.count, &excelize.Style{Border: thinBorder(), NumFmt: 1})
	add(&s.notice, &excelize.Style{
		Font:      &excelize.Font{Italic: true, Color: colorMuted},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*d.id = id
	}
	return s, nil
}

package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/litequery/internal/app"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9"
	ColorComment    = "#4C566A"
	ColorOrange     = "#D08770"
	ColorPurple     = "#B48EAD"
	ColorYellow     = "#EBCB8B"
	ColorTeal       = "#8FBCBB"
)

// MaxColumnWidth caps a single column, borders excluded.
const MaxColumnWidth = 40

var cellReplacer = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\t", " ")

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		Focused(false).
		BorderRounded()
}

// Options control which part of a result is shown.
type Options struct {
	// PageSize is the number of rows on one page.
	PageSize int
	// Width is the space available for the whole table.
	Width int
	Cursor app.GridPos
	// Focused highlights the cursor row and cell.
	Focused bool
}

// Page describes the slice of a result that is on screen.
type Page struct {
	Index, Count int
	First, Last  int // row range, Last exclusive
	ColFirst     int
	ColLast      int // exclusive
}

// Paginate returns the page holding the cursor and the window of columns
// that fits in width while keeping the cursor column visible.
func Paginate(rs *app.ResultSet, o Options) Page {
	size := max(o.PageSize, 1)
	rows := rs.RowCount()
	p := Page{Count: max((rows+size-1)/size, 1)}
	p.Index = min(max(o.Cursor.Row, 0)/size, p.Count-1)
	p.First = p.Index * size
	p.Last = min(p.First+size, rows)

	widths := ColumnWidths(rs)
	p.ColFirst, p.ColLast = columnWindow(widths, min(max(o.Cursor.Col, 0), max(len(widths)-1, 0)), o.Width)
	return p
}

// columnWindow picks [lo, hi) around cursor so that the rendered widths fit.
// Every column costs its width plus one border cell.
func columnWindow(widths []int, cursor, width int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}
	if width <= 0 {
		return 0, len(widths)
	}
	budget := width - 1
	lo, hi := cursor, cursor+1
	used := widths[cursor] + 1
	for {
		grew := false
		if hi < len(widths) && used+widths[hi]+1 <= budget {
			used += widths[hi] + 1
			hi++
			grew = true
		}
		if lo > 0 && used+widths[lo-1]+1 <= budget {
			lo--
			used += widths[lo] + 1
			grew = true
		}
		if !grew {
			return lo, hi
		}
	}
}

// ColumnWidths returns the display width of each column including padding.
func ColumnWidths(rs *app.ResultSet) []int {
	if rs == nil {
		return nil
	}
	widths := make([]int, len(rs.Columns))
	for i, c := range rs.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range rs.Rows {
		for i, val := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cellReplacer.Replace(val)))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], MaxColumnWidth) + 2
	}
	return widths
}

// FromResultSet builds the table for the page of rs that holds the cursor.
func FromResultSet(rs *app.ResultSet, o Options) bbtable.Model {
	if rs == nil || len(rs.Columns) == 0 {
		return bbtable.New(nil)
	}
	p := Paginate(rs, o)
	widths := ColumnWidths(rs)

	cols := make([]bbtable.Column, 0, p.ColLast-p.ColFirst)
	for i := p.ColFirst; i < p.ColLast; i++ {
		title := runewidth.Truncate(rs.Columns[i], widths[i]-2, "…")
		cols = append(cols, bbtable.NewColumn(columnKey(i), title, widths[i]))
	}

	rows := make([]bbtable.Row, 0, p.Last-p.First)
	for r := p.First; r < p.Last; r++ {
		data := bbtable.RowData{}
		for c := p.ColFirst; c < p.ColLast; c++ {
			val := runewidth.Truncate(cellReplacer.Replace(rs.Rows[r][c]), widths[c]-2, "…")
			style := GetValueStyle(rs.Rows[r][c])
			if o.Focused && r == o.Cursor.Row {
				style = style.Background(lipgloss.Color(ColorComment))
				if c == o.Cursor.Col {
					style = style.Reverse(true)
				}
			}
			data[columnKey(c)] = bbtable.NewStyledCell(val, style)
		}
		rows = append(rows, bbtable.NewRow(data))
	}

	return New(cols).
		WithRows(rows).
		WithNoPagination().
		WithStaticFooter(Footer(rs, p))
}

// Footer summarises the position in the result.
func Footer(rs *app.ResultSet, p Page) string {
	total := rs.RowCount()
	if total == 0 {
		return fmt.Sprintf("0 rows · %d columns", rs.ColumnCount())
	}
	s := fmt.Sprintf("rows %d-%d of %d · page %d/%d", p.First+1, p.Last, total, p.Index+1, p.Count)
	if p.ColFirst > 0 || p.ColLast < rs.ColumnCount() {
		s += fmt.Sprintf(" · cols %d-%d of %d", p.ColFirst+1, p.ColLast, rs.ColumnCount())
	}
	return s
}

func columnKey(i int) string { return "c" + strconv.Itoa(i) }

// GetValueStyle returns a lipgloss style based on value content
func GetValueStyle(val string) lipgloss.Style {
	if val == "" || val == "NULL" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple)).Italic(true)
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	}
	if val == "true" || val == "false" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
}

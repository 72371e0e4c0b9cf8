package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhath/litequery/internal/app"
	"github.com/nhath/litequery/internal/fsbrowse"
	"github.com/nhath/litequery/internal/ui/components/table"
	"github.com/nhath/litequery/internal/ui/highlight"
	"github.com/nhath/litequery/internal/ui/icons"
)

// panel draws content in a bordered box of the given outer size.
func panel(title, content string, focused bool, width, height int) string {
	style := PanelStyle
	if focused {
		style = FocusedPanelStyle
	}
	innerW := max(width-style.GetHorizontalFrameSize(), 1)
	innerH := max(height-style.GetVerticalFrameSize()-1, 0)

	body := lipgloss.NewStyle().MaxWidth(innerW).Height(innerH).MaxHeight(innerH).Render(content)
	head := TitleStyle.Render(truncate(title, innerW))
	return style.Width(width - style.GetHorizontalBorderSize()).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (r *Renderer) renderHome(v app.View, width, height int) string {
	connH := 4
	queryLines := min(max(strings.Count(v.History.Draft, "\n")+1, 1), 5)
	queryH := queryLines + 3
	resultsH := max(height-connH-queryH, 4)

	var conn string
	if v.Conn == nil {
		conn = MetaStyle.Render("not connected · press o to open a database file")
	} else {
		conn = ItemStyle.Render(connectionLabel(v.Conn)) +
			MetaStyle.Render("  opened "+v.Conn.OpenedAt.Format("15:04:05"))
	}

	results := MetaStyle.Render("no results yet")
	if v.Results != nil {
		results = table.FromResultSet(v.Results, table.Options{
			PageSize: max(resultsH-8, 1),
			Width:    width - 4,
		}).View()
	}

	query := MetaStyle.Render("empty · press 3 then enter to write a query")
	if strings.TrimSpace(v.History.Draft) != "" {
		innerW := max(width-PanelStyle.GetHorizontalFrameSize(), 1)
		query = queryEditor(v.History, innerW, queryLines, false).View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panel("1 Connection", conn, v.Focus == app.PanelConnection, width, connH),
		panel("2 Results", results, v.Focus == app.PanelResults, width, resultsH),
		panel("3 Query", query, v.Focus == app.PanelQuery, width, queryH),
	)
}

// queryEditor paints h through a textarea of the given inner size. The
// draft and caret stay owned by h; the textarea is rebuilt every frame.
func queryEditor(h app.QueryHistory, width, height int, focused bool) textarea.Model {
	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.FocusedStyle = editorStyle()
	ta.BlurredStyle = editorStyle()
	ta.Cursor.Style = CaretStyle
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.SetValue(h.Draft)

	line, col := h.CaretPos()
	for ta.Line() > line {
		ta.CursorUp()
	}
	ta.SetCursor(col)

	if focused {
		ta.Focus()
		// the viewport only scrolls over content laid out by a previous View
		ta.View()
		ta, _ = ta.Update(nil)
	} else {
		ta.Blur()
	}
	return ta
}

func editorStyle() textarea.Style {
	return textarea.Style{
		Base:             lipgloss.NewStyle(),
		CursorLine:       ItemStyle,
		CursorLineNumber: TitleStyle,
		EndOfBuffer:      LineNumberStyle,
		LineNumber:       LineNumberStyle,
		Placeholder:      MetaStyle,
		Prompt:           LineNumberStyle,
		Text:             ItemStyle,
	}
}

func (r *Renderer) renderEditor(v app.View, width, height int) string {
	h := v.History
	info := fmt.Sprintf("%d executed", len(h.Executed))
	if h.Recalling() {
		info = "recalled query · " + info
	}
	if v.Results != nil {
		info += fmt.Sprintf(" · last result %d rows × %d columns", v.Results.RowCount(), v.Results.ColumnCount())
	}

	innerW := max(width-PanelStyle.GetHorizontalFrameSize(), 1)
	innerH := max(height-PanelStyle.GetVerticalFrameSize()-2, 1)
	editor := queryEditor(h, innerW, innerH, true).View()
	return lipgloss.JoinVertical(lipgloss.Left,
		panel("Query", editor, true, width, height-1),
		MetaStyle.Render(truncate(info, width)),
	)
}

func (r *Renderer) renderBrowser(v app.View, width, height int) string {
	b := v.Browser
	title := TitleStyle.Render("Open database ") + ItemStyle.Render(truncateLeft(b.Dir, width-15))

	var body string
	switch {
	case b.Loading:
		body = SpinnerStyle.Render(spinnerFrame(v.Frame) + " reading directory")
	case len(b.Entries) == 0:
		body = MetaStyle.Render("no database files here")
	default:
		lo, hi := window(len(b.Entries), b.Cursor, height-2)
		lines := make([]string, 0, hi-lo)
		for i := lo; i < hi; i++ {
			lines = append(lines, browserLine(b.Entries[i], i == b.Cursor, width))
		}
		body = strings.Join(lines, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body)
}

func browserLine(e fsbrowse.Entry, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = icons.IconSelect + " "
	}
	var line string
	if e.IsDir {
		line = prefix + icons.IconFolder + " " + e.Name + "/"
	} else {
		line = prefix + icons.IconFile + " " + e.Name + "  " + humanize.Bytes(uint64(max(e.Size, 0)))
	}
	line = truncate(line, width)
	switch {
	case selected:
		return SelectionStyle.Render(line)
	case e.IsDir:
		return DirStyle.Render(line)
	}
	return ItemStyle.Render(line)
}

func (r *Renderer) renderResults(v app.View, width, height int) string {
	rs := v.Results
	if rs == nil {
		return MetaStyle.Render("no results yet · run a query from the query panel")
	}
	query := highlight.SQL(truncate(strings.ReplaceAll(rs.Query, "\n", " "), width-12), r.syntaxStyle)
	elapsed := MetaStyle.Render(fmt.Sprintf("  %s", rs.Elapsed.Round(time.Millisecond)))

	t := table.FromResultSet(rs, table.Options{
		PageSize: max(min(v.PageSize, height-8), 1),
		Width:    width,
		Cursor:   v.Cursor,
		Focused:  true,
	})
	cell := ""
	if rs.RowCount() > 0 && v.Cursor.Col < rs.ColumnCount() {
		cell = MetaStyle.Render(truncate(fmt.Sprintf("%s = %s", rs.Columns[v.Cursor.Col], rs.Cell(v.Cursor.Row, v.Cursor.Col)), width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, query+elapsed, t.View(), cell)
}

func (r *Renderer) renderExplorer(v app.View, width, height int) string {
	e := v.Explorer
	var lines []string

	if v.Conn == nil {
		lines = append(lines, MetaStyle.Render("not connected"))
	} else {
		lines = append(lines,
			ItemStyle.Render(truncate(connectionLabel(v.Conn), width)),
			MetaStyle.Render("opened "+v.Conn.OpenedAt.Format("2006-01-02 15:04:05")),
		)
	}

	cursorLine := 0
	item := func(i int, icon, name string) string {
		if i == e.Cursor {
			cursorLine = len(lines)
			return SelectionStyle.Render(truncate(icons.IconSelect+" "+icon+" "+name, width))
		}
		return ItemStyle.Render(truncate("  "+icon+" "+name, width))
	}

	lines = append(lines, "", PopupSectionStyle.Render("Profiles"))
	if len(e.Profiles) == 0 {
		lines = append(lines, MetaStyle.Render("  no saved profiles"))
	}
	for i, p := range e.Profiles {
		lines = append(lines, item(i, icons.IconProfile, p))
	}

	lines = append(lines, "", PopupSectionStyle.Render("Tables"))
	switch {
	case e.Loading:
		lines = append(lines, SpinnerStyle.Render(spinnerFrame(v.Frame)+" loading tables"))
	case e.Err != "":
		lines = append(lines, ErrorStyle.Render(truncate(e.Err, width)))
	case v.Conn != nil && len(e.Tables) == 0:
		lines = append(lines, MetaStyle.Render("  no tables"))
	}
	for i, t := range e.Tables {
		lines = append(lines, item(len(e.Profiles)+i, icons.IconTable, t))
	}

	lo, hi := window(len(lines), cursorLine, height)
	return strings.Join(lines[lo:hi], "\n")
}

func (r *Renderer) renderSettings(v app.View, width, _ int) string {
	labelW := 0
	for _, s := range v.Settings {
		labelW = max(labelW, lipgloss.Width(s.Label))
	}

	lines := []string{TitleStyle.Render("Settings"), ""}
	for i, s := range v.Settings {
		line := fmt.Sprintf("%-*s  %s", labelW, s.Label, s.Value)
		if i == v.Setting {
			lines = append(lines, SelectionStyle.Render(truncate(icons.IconSelect+" "+line, width)))
			continue
		}
		lines = append(lines, ItemStyle.Render(truncate("  "+line, width)))
	}
	lines = append(lines, "", MetaStyle.Render("changes apply now; save writes them to the config file"))
	return strings.Join(lines, "\n")
}

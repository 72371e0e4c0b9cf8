// Package highlight colours SQL for the terminal using chroma's SQL lexer
// and the configured chroma style.
package highlight

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// DefaultStyle is used when the configured style name is unknown.
const DefaultStyle = "nord"

var (
	lexerOnce sync.Once
	sqlLexer  chroma.Lexer

	cacheMu sync.Mutex
	cache   = map[string]*palette{}
)

func lexer() chroma.Lexer {
	lexerOnce.Do(func() {
		l := lexers.Get("sql")
		if l == nil {
			l = lexers.Fallback
		}
		sqlLexer = chroma.Coalesce(l)
	})
	return sqlLexer
}

// palette converts chroma style entries to lipgloss styles so the output
// follows the active lipgloss colour profile.
type palette struct {
	style  *chroma.Style
	byType map[chroma.TokenType]lipgloss.Style
}

func paletteFor(name string) *palette {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if p, ok := cache[name]; ok {
		return p
	}
	style := styles.Get(name)
	if style == styles.Fallback && name != styles.Fallback.Name {
		style = styles.Get(DefaultStyle)
	}
	p := &palette{style: style, byType: map[chroma.TokenType]lipgloss.Style{}}
	cache[name] = p
	return p
}

func (p *palette) get(tt chroma.TokenType) lipgloss.Style {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if s, ok := p.byType[tt]; ok {
		return s
	}
	e := p.style.Get(tt)
	s := lipgloss.NewStyle()
	if e.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(e.Colour.String()))
	}
	if e.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if e.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if e.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	p.byType[tt] = s
	return s
}

// SQL highlights a single line of SQL. Newlines in src are dropped; callers
// split multi-line text first.
func SQL(src, styleName string) string {
	if src == "" {
		return ""
	}
	it, err := lexer().Tokenise(nil, src)
	if err != nil {
		return src
	}
	p := paletteFor(styleName)

	var b strings.Builder
	for _, tok := range it.Tokens() {
		text := strings.ReplaceAll(tok.Value, "\n", "")
		if text == "" {
			continue
		}
		b.WriteString(p.get(tok.Type).Render(text))
	}
	return b.String()
}

package popup

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestView(t *testing.T) {
	v := New("Title", "body text", "esc to close").View()
	assert.Contains(t, v, "Title")
	assert.Contains(t, v, "body text")
	assert.Contains(t, v, "esc to close")
	assert.True(t, strings.HasPrefix(v, "╭"))
}

func TestView_Width(t *testing.T) {
	p := New("", "x", "")
	p.Width = 30
	for _, line := range strings.Split(p.View(), "\n") {
		assert.Equal(t, 30, lipgloss.Width(line))
	}
}

func TestOver_KeepsBackgroundSize(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 40)+"\n", 10), "\n")
	out := New("", "hi", "").Over(bg, overlay.Center, overlay.Center)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, out, "hi")
	for _, l := range lines {
		assert.Equal(t, 40, lipgloss.Width(l))
	}
}

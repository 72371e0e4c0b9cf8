package app

import (
	"slices"
	"strconv"

	"github.com/nhath/litequery/internal/config"
)

// Prefs are the settings editable in ConfigEditor.
type Prefs struct {
	RunOnConnect     bool
	ResultsOnSuccess bool
	ShowHelp         bool
	PageSize         int
	PersistHistory   bool
}

// PrefsFromConfig extracts the editable settings.
func PrefsFromConfig(c *config.Config) Prefs {
	return Prefs{
		RunOnConnect:     c.UI.RunOnConnect,
		ResultsOnSuccess: c.UI.ResultsOnSuccess,
		ShowHelp:         c.UI.ShowHelp,
		PageSize:         c.UI.PageSize,
		PersistHistory:   c.History.Persist,
	}
}

// ApplyTo writes p back into c.
func (p Prefs) ApplyTo(c *config.Config) {
	c.UI.RunOnConnect = p.RunOnConnect
	c.UI.ResultsOnSuccess = p.ResultsOnSuccess
	c.UI.ShowHelp = p.ShowHelp
	c.UI.PageSize = p.PageSize
	c.History.Persist = p.PersistHistory
}

var pageSizes = []int{10, 20, 50, 100}

// nextPageSize cycles through pageSizes, snapping unknown values to the
// first one.
func nextPageSize(n int) int {
	i := slices.Index(pageSizes, n)
	return pageSizes[(i+1)%len(pageSizes)]
}

type setting struct {
	label  string
	value  func(Prefs) string
	toggle func(Prefs) Prefs
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var settings = []setting{
	{
		label:  "Run draft after connecting",
		value:  func(p Prefs) string { return onOff(p.RunOnConnect) },
		toggle: func(p Prefs) Prefs { p.RunOnConnect = !p.RunOnConnect; return p },
	},
	{
		label:  "Show results after a query",
		value:  func(p Prefs) string { return onOff(p.ResultsOnSuccess) },
		toggle: func(p Prefs) Prefs { p.ResultsOnSuccess = !p.ResultsOnSuccess; return p },
	},
	{
		label:  "Help bar",
		value:  func(p Prefs) string { return onOff(p.ShowHelp) },
		toggle: func(p Prefs) Prefs { p.ShowHelp = !p.ShowHelp; return p },
	},
	{
		label:  "Rows per page",
		value:  func(p Prefs) string { return strconv.Itoa(p.PageSize) },
		toggle: func(p Prefs) Prefs { p.PageSize = nextPageSize(p.PageSize); return p },
	},
	{
		label:  "Save query history",
		value:  func(p Prefs) string { return onOff(p.PersistHistory) },
		toggle: func(p Prefs) Prefs { p.PersistHistory = !p.PersistHistory; return p },
	},
}

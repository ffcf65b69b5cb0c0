package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/licenses"
	"github.com/matzehuels/feluda/pkg/scan"
)

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorFaint)
	detailBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFaint).Padding(0, 1)
	detailKeyText = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
)

// resultFilter selects which records the browser lists.
type resultFilter int

const (
	filterAll resultFilter = iota
	filterIssues
	filterRestrictive
	filterIncompatible
	filterUnknown
)

var filterNames = map[resultFilter]string{
	filterAll:          "all",
	filterIssues:       "issues",
	filterRestrictive:  "restrictive",
	filterIncompatible: "incompatible",
	filterUnknown:      "unknown",
}

func (f resultFilter) keep(info licenses.Info) bool {
	switch f {
	case filterIssues:
		return statusLabel(info) != "ok"
	case filterRestrictive:
		return info.Restrictive
	case filterIncompatible:
		return info.Compatibility == licenses.Incompatible
	case filterUnknown:
		return !info.Known()
	default:
		return true
	}
}

// sortColumn orders the listed records. sortNone keeps report order.
type sortColumn int

const (
	sortNone sortColumn = iota
	sortName
	sortVersion
	sortLicense
	sortStatus
	sortOSI
	sortColumns
)

var sortNames = [sortColumns]string{"report order", "name", "version", "license", "status", "OSI"}

// statusRank puts the worst findings first.
func statusRank(info licenses.Info) int {
	switch statusLabel(info) {
	case "incompatible":
		return 0
	case "restrictive":
		return 1
	case "unknown":
		return 2
	default:
		return 3
	}
}

func (c sortColumn) compare(a, b scan.Record) int {
	byName := cmp.Compare(a.Name, b.Name)
	switch c {
	case sortName:
		return cmp.Or(byName, semver.CompareStrings(a.Version, b.Version))
	case sortVersion:
		return cmp.Or(semver.CompareStrings(a.Version, b.Version), byName)
	case sortLicense:
		return cmp.Or(cmp.Compare(a.License.Display(), b.License.Display()), byName)
	case sortStatus:
		return cmp.Or(cmp.Compare(statusRank(a.License), statusRank(b.License)), byName)
	case sortOSI:
		return cmp.Or(cmp.Compare(a.License.OSI.String(), b.License.OSI.String()), byName)
	default:
		return 0
	}
}

// ResultsModel is the bubbletea model of the interactive results browser.
type ResultsModel struct {
	Result  *scan.Result
	Records []scan.Record // records the browser was opened with
	Filter  resultFilter
	Cursor  int
	Height  int
	Offset  int
	Detail  bool
	Sort    sortColumn
	Desc    bool

	visible []scan.Record
}

// NewResultsModel creates a browser over records of res.
func NewResultsModel(res *scan.Result, records []scan.Record) ResultsModel {
	m := ResultsModel{Result: res, Records: records, Height: 15, Detail: true}
	m.applyFilter()
	return m
}

func (m *ResultsModel) applyFilter() {
	m.visible = nil
	for _, r := range m.Records {
		if m.Filter.keep(r.License) {
			m.visible = append(m.visible, r)
		}
	}
	if m.Sort != sortNone {
		slices.SortStableFunc(m.visible, func(a, b scan.Record) int {
			if m.Desc {
				return m.Sort.compare(b, a)
			}
			return m.Sort.compare(a, b)
		})
	}
	m.Cursor, m.Offset = 0, 0
}

// Visible returns the records passing the current filter, in sort order.
func (m ResultsModel) Visible() []scan.Record { return m.visible }

func (m ResultsModel) Init() tea.Cmd {
	return nil
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "d":
			m.Detail = !m.Detail
		case "tab", "f":
			m.Filter = (m.Filter + 1) % resultFilter(len(filterNames))
			m.applyFilter()
		case "a":
			m.Filter = filterAll
			m.applyFilter()
		case "r":
			m.Filter = filterRestrictive
			m.applyFilter()
		case "i":
			m.Filter = filterIncompatible
			m.applyFilter()
		case "u":
			m.Filter = filterUnknown
			m.applyFilter()
		case "s":
			m.Sort = (m.Sort + 1) % sortColumns
			m.applyFilter()
		case "S":
			m.Desc = !m.Desc
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("License Report"))
	if m.Result != nil && m.Result.ProjectLicense != "" {
		b.WriteString(StyleDim.Render("  project: ") + StyleValue.Render(m.Result.ProjectLicense))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  tab filter  a/r/i/u all/restrictive/incompatible/unknown  s/S sort/reverse  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  no %s dependencies", filterNames[m.Filter])))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Name, r.Version, string(r.Ecosystem), r.License.Display(), statusLabel(r.License)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Dependency", "Version", "Ecosystem", "License", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = licenseStyle(m.visible[idx].License)
			} else if col == 3 {
				base = base.Foreground(colorMuted)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] filter: %s  sort: %s", m.Cursor+1, len(m.visible), filterNames[m.Filter], m.sortLabel())))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString(detailView(m.visible[m.Cursor]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ResultsModel) sortLabel() string {
	label := sortNames[m.Sort]
	if m.Sort != sortNone && m.Desc {
		label += " ↓"
	} else if m.Sort != sortNone {
		label += " ↑"
	}
	return label
}

func detailView(r scan.Record) string {
	line := func(key, value string) string {
		return detailKeyText.Render(key) + " " + value + "\n"
	}
	var b strings.Builder
	b.WriteString(line("Dependency", StyleValue.Render(r.Name+" "+r.Version)))
	b.WriteString(line("Manifest", StyleDim.Render(r.Manifest)))
	depth := "direct"
	if !r.Direct() {
		depth = fmt.Sprintf("transitive (depth %d)", r.Depth)
	}
	b.WriteString(line("Depth", depth))
	b.WriteString(line("License", licenseStyle(r.License).Render(r.License.Display())))
	if len(r.License.Raw) > 0 {
		b.WriteString(line("Declared", StyleDim.Render(strings.Join(r.License.Raw, ", "))))
	}
	b.WriteString(line("Source", string(r.License.Source)))
	b.WriteString(line("OSI", r.License.OSI.String()))
	b.WriteString(line("Compatibility", r.License.Compatibility.String()))
	if r.Unresolved {
		b.WriteString(line("Note", StyleWarning.Render("transitive dependencies not resolved")))
	}
	return detailBox.Render(strings.TrimRight(b.String(), "\n"))
}

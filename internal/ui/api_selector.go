package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	pkgtypes "gwprobe/pkg/types"
)

const (
	apiListHeight = 8
	apiMinWidth   = 60
	apiMaxWidth   = 120
	// Fixed column widths
	colWidthAPIID   = 14
	colWidthCreated = 16
)

// APISelectorModel is the bubbletea model for REST API selection
type APISelectorModel struct {
	apis         []pkgtypes.RestAPI
	filtered     []pkgtypes.RestAPI
	cursor       int
	offset       int // for scrolling
	search       string
	selected     *pkgtypes.RestAPI
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	nameWidth    int
}

// NewAPISelector creates a new REST API selector model
func NewAPISelector(apis []pkgtypes.RestAPI) APISelectorModel {
	m := APISelectorModel{
		apis:      apis,
		filtered:  apis,
		termWidth: 80, // default
	}
	m.calculateWidths()
	return m
}

// SelectAPI runs the interactive selector and returns the chosen API,
// or nil when the user cancelled
func SelectAPI(apis []pkgtypes.RestAPI) (*pkgtypes.RestAPI, error) {
	p := tea.NewProgram(NewAPISelector(apis))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run api selector: %w", err)
	}

	m, ok := final.(APISelectorModel)
	if !ok || m.cancelled {
		return nil, nil
	}
	return m.selected, nil
}

func (m *APISelectorModel) calculateWidths() {
	m.contentWidth = m.termWidth - 2
	if m.contentWidth < apiMinWidth {
		m.contentWidth = apiMinWidth
	}
	if m.contentWidth > apiMaxWidth {
		m.contentWidth = apiMaxWidth
	}

	// cursor(3) + ID + spacing(2) + Created + spacing(2) + Name
	fixedWidth := 3 + colWidthAPIID + 2 + colWidthCreated + 2
	m.nameWidth = m.contentWidth - fixedWidth
	if m.nameWidth < 10 {
		m.nameWidth = 10
	}
}

// Init implements tea.Model
func (m APISelectorModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m APISelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = &m.filtered[m.cursor]
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+apiListHeight {
					m.offset = m.cursor - apiListHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				m.search = m.search[:len(m.search)-1]
				m.filterAPIs()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filterAPIs()
		}
	}

	return m, nil
}

// filterAPIs filters the API list based on search query
func (m *APISelectorModel) filterAPIs() {
	if m.search == "" {
		m.filtered = m.apis
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, api := range m.apis {
			if strings.Contains(strings.ToLower(api.Name), query) ||
				strings.Contains(strings.ToLower(api.ID), query) ||
				strings.Contains(strings.ToLower(api.Description), query) {
				m.filtered = append(m.filtered, api)
			}
		}
	}
	// Reset cursor if out of bounds
	if m.cursor >= len(m.filtered) {
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
		} else {
			m.cursor = 0
		}
	}
	m.offset = 0
}

// View implements tea.Model
func (m APISelectorModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	w := m.contentWidth

	// Top border
	sb.WriteString(BorderStyle.Render(TopLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(TopRight))
	sb.WriteString("\n")

	// Search input
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(NameStyle.Render(padToWidth(" > "+m.search, w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	// Empty line after search
	sb.WriteString(m.emptyRow())

	// API list
	visibleEnd := m.offset + apiListHeight
	if visibleEnd > len(m.filtered) {
		visibleEnd = len(m.filtered)
	}
	for i := m.offset; i < visibleEnd; i++ {
		sb.WriteString(m.renderAPIRow(i))
	}

	// Fill remaining lines if list is short
	for i := len(m.filtered); i < m.offset+apiListHeight; i++ {
		sb.WriteString(m.emptyRow())
	}

	// Separator
	sb.WriteString(BorderStyle.Render(LeftT))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(RightT))
	sb.WriteString("\n")

	// Details panel
	sb.WriteString(m.renderDetailsPanel())

	// Bottom border
	sb.WriteString(BorderStyle.Render(BottomLeft))
	sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w)))
	sb.WriteString(BorderStyle.Render(BottomRight))
	sb.WriteString("\n")

	// Status bar
	sb.WriteString(m.renderStatusBar())

	return sb.String()
}

func (m APISelectorModel) emptyRow() string {
	return BorderStyle.Render(Vertical) + strings.Repeat(" ", m.contentWidth) + BorderStyle.Render(Vertical) + "\n"
}

func (m APISelectorModel) renderAPIRow(idx int) string {
	var sb strings.Builder
	api := m.filtered[idx]
	w := m.contentWidth

	sb.WriteString(BorderStyle.Render(Vertical))

	var line strings.Builder
	plainWidth := 0

	// Cursor indicator (3 chars)
	if idx == m.cursor {
		line.WriteString(" > ")
	} else {
		line.WriteString("   ")
	}
	plainWidth += 3

	line.WriteString(IDStyle.Render(padRight(api.ID, colWidthAPIID)))
	line.WriteString("  ")
	plainWidth += colWidthAPIID + 2

	line.WriteString(MutedStyle.Render(padRight(api.CreatedDate, colWidthCreated)))
	line.WriteString("  ")
	plainWidth += colWidthCreated + 2

	line.WriteString(NameStyle.Render(padRight(api.Name, m.nameWidth)))
	plainWidth += m.nameWidth

	if plainWidth < w {
		line.WriteString(strings.Repeat(" ", w-plainWidth))
	}

	sb.WriteString(line.String())
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	return sb.String()
}

func (m APISelectorModel) renderDetailsPanel() string {
	var sb strings.Builder
	w := m.contentWidth
	const labelWidth = 10

	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString(HeaderStyle.Render(padToWidth(" API Details", w)))
	sb.WriteString(BorderStyle.Render(Vertical))
	sb.WriteString("\n")

	if len(m.filtered) == 0 {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(MutedStyle.Render(padToWidth(" No APIs found", w)))
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
		return sb.String()
	}

	api := m.filtered[m.cursor]
	details := []struct {
		label string
		value string
	}{
		{"ID:", api.ID},
		{"Name:", api.Name},
		{"Created:", api.CreatedDate},
		{"Desc:", api.Description},
	}

	for _, d := range details {
		sb.WriteString(BorderStyle.Render(Vertical))

		value := d.value
		maxValueWidth := w - 1 - labelWidth
		if runewidth.StringWidth(value) > maxValueWidth {
			value = runewidth.Truncate(value, maxValueWidth, "...")
		}

		plainWidth := 1 + labelWidth + runewidth.StringWidth(value)
		line := MutedStyle.Render(" "+padRight(d.label, labelWidth)) + NameStyle.Render(value)
		if plainWidth < w {
			line += strings.Repeat(" ", w-plainWidth)
		}

		sb.WriteString(line)
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m APISelectorModel) renderStatusBar() string {
	w := m.contentWidth + 2

	countInfo := fmt.Sprintf("  %d/%d apis", len(m.filtered), len(m.apis))
	hintsPlain := "[Enter:select] [Esc:cancel]"

	padding := w - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hintsPlain)

	var sb strings.Builder
	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(HintStyle.Render(hintsPlain))
	sb.WriteString("\n")

	return sb.String()
}

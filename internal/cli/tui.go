package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/galaxygen/pkg/settings"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PromptModel - Interactive run parameters
// =============================================================================

const (
	fieldSize = iota
	fieldArms
	fieldStars
	fieldType
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldSize:  "Size of image in pixels",
	fieldArms:  "Amount of spiral arms",
	fieldStars: "Amount of star spawns",
	fieldType:  "Galaxy type",
}

// PromptModel is the bubbletea model that asks for size, arms, stars and
// galaxy type. Numeric fields take digits; the type is chosen with the
// arrow keys from the configured types.
type PromptModel struct {
	Values    [fieldType]string
	Types     []string
	TypeIndex int
	Cursor    int
	Err       string

	// Done is set once every field was confirmed. Quitting early leaves
	// it false.
	Done bool
}

// NewPromptModel creates a prompt prefilled with defaults.
func NewPromptModel(defaults settings.Parameters, types []string) PromptModel {
	m := PromptModel{Types: types}
	m.Values[fieldSize] = strconv.Itoa(defaults.Size)
	m.Values[fieldArms] = strconv.Itoa(defaults.Arms)
	m.Values[fieldStars] = strconv.Itoa(defaults.Stars)
	if i := slices.Index(types, defaults.Type); i >= 0 {
		m.TypeIndex = i
	}
	return m
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.Err = ""
	case "tab", "down", "enter":
		if err := m.check(m.Cursor); err != "" {
			m.Err = err
			return m, nil
		}
		m.Err = ""
		if m.Cursor == fieldType {
			if key.String() == "enter" {
				m.Done = true
				return m, tea.Quit
			}
			return m, nil
		}
		m.Cursor++
	case "left", "h":
		if m.Cursor == fieldType && len(m.Types) > 0 {
			m.TypeIndex = (m.TypeIndex + len(m.Types) - 1) % len(m.Types)
		}
	case "right", "l":
		if m.Cursor == fieldType && len(m.Types) > 0 {
			m.TypeIndex = (m.TypeIndex + 1) % len(m.Types)
		}
	case "backspace":
		if m.Cursor < fieldType {
			v := m.Values[m.Cursor]
			if len(v) > 0 {
				m.Values[m.Cursor] = v[:len(v)-1]
			}
		}
	default:
		if m.Cursor < fieldType && key.Type == tea.KeyRunes {
			for _, r := range key.Runes {
				if r >= '0' && r <= '9' && len(m.Values[m.Cursor]) < 9 {
					m.Values[m.Cursor] += string(r)
				}
			}
		}
	}
	return m, nil
}

// check returns a message when field i holds an unusable value. Range
// checks are left to the pipeline.
func (m PromptModel) check(i int) string {
	if i == fieldType {
		if len(m.Types) == 0 {
			return "no galaxy types configured"
		}
		return ""
	}
	if _, err := strconv.Atoi(m.Values[i]); err != nil {
		return fieldLabels[i] + " must be a number"
	}
	return ""
}

// Parameters returns the entered values.
func (m PromptModel) Parameters() settings.Parameters {
	size, _ := strconv.Atoi(m.Values[fieldSize])
	arms, _ := strconv.Atoi(m.Values[fieldArms])
	stars, _ := strconv.Atoi(m.Values[fieldStars])
	var typ string
	if len(m.Types) > 0 {
		typ = m.Types[m.TypeIndex]
	}
	return settings.Parameters{Size: size, Arms: arms, Stars: stars, Type: typ}
}

func (m PromptModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("New Galaxy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("digits: edit  ⏎ next  ↑ back  ←/→ type  esc quit"))
	b.WriteString("\n\n")

	for i := range fieldCount {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		var value string
		if i == fieldType {
			if len(m.Types) > 0 {
				value = "‹ " + m.Types[m.TypeIndex] + " ›"
			}
		} else {
			value = m.Values[i]
			if i == m.Cursor {
				value += "_"
			}
		}

		line := fmt.Sprintf("%s%-26s %s", cursor, fieldLabels[i]+"?", value)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case i > m.Cursor:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.Err != "" {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render("  " + m.Err))
		b.WriteString("\n")
	}
	return b.String()
}

// promptParameters runs the prompt on the terminal. Quitting without
// confirming returns context.Canceled.
func promptParameters(ctx context.Context, defaults settings.Parameters, types []string) (settings.Parameters, error) {
	final, err := tea.NewProgram(NewPromptModel(defaults, types), tea.WithContext(ctx)).Run()
	if err != nil {
		return settings.Parameters{}, fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(PromptModel)
	if !ok || !m.Done {
		return settings.Parameters{}, context.Canceled
	}
	return m.Parameters(), nil
}

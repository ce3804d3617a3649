package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/galaxygen/pkg/settings"
)

// typesCommand creates the types command.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the configured galaxy types",
		Long: `List the galaxy types of the [galaxy_types] table with their shape
parameters. Add a table entry to the settings file to define a new type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTypes(cmd.OutOrStdout(), c.Settings)
		},
	}
}

func writeTypes(w io.Writer, s *settings.Settings) error {
	names := s.ProfileNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p := s.GalaxyTypes[name]
		if name == s.Parameters.Type {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			formatFloat(p.Tightness),
			formatFloat(p.Bar),
			formatFloat(p.CoreSpread),
			formatFloat(p.CoreChance),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Tightness", "Bar", "Core spread", "Core chance").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, StyleDim.Render("* default type"))
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

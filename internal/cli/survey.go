package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/matzehuels/galaxygen/pkg/pipeline"
)

// surveyCommand creates the survey command.
func (c *CLI) surveyCommand() *cobra.Command {
	var (
		runs  int
		first uint64
		size  int
		stars int
		typ   string
	)

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Generate many seeds and summarize the results",
		Long: `Generate a galaxy for each of a run of consecutive seeds without exporting
anything, and summarize how many stars were placed, how many hyperlane
edges were laid and how long each run took.

Useful for tuning the [generation] settings: collision rejection means the
placed star count is usually below the requested one.`,
		Example: `  galaxygen survey --runs 20 --size 800
  galaxygen survey --type barred --seed 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.OptionsFromSettings(c.Settings)
			opts.Formats = nil
			opts.Logger = c.Logger
			if cmd.Flags().Changed("size") {
				opts.Size = size
			}
			if cmd.Flags().Changed("stars") {
				opts.Stars = stars
			}
			if cmd.Flags().Changed("type") {
				opts.Type = typ
			}
			return c.runSurvey(cmd.Context(), opts, first, runs)
		},
	}

	cmd.Flags().IntVarP(&runs, "runs", "n", 10, "number of seeds")
	cmd.Flags().Uint64Var(&first, "seed", 1, "first seed")
	cmd.Flags().IntVar(&size, "size", 0, "image edge length (default from settings)")
	cmd.Flags().IntVar(&stars, "stars", 0, "star spawn attempts (default from settings)")
	cmd.Flags().StringVarP(&typ, "type", "t", "", "galaxy type (default from settings)")

	return cmd
}

// surveySample is what one survey run contributes.
type surveySample struct {
	placed float64
	edges  float64
	millis float64
}

func (c *CLI) runSurvey(ctx context.Context, base pipeline.Options, first uint64, runs int) error {
	if runs < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", runs)
	}
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	samples := make([]surveySample, 0, runs)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Surveying %d seeds...", runs))
	spinner.Start()
	for i := 0; i < runs; i++ {
		opts := base
		opts.Seed = first + uint64(i)
		spinner.Count("Surveying seed", i+1, runs)
		res, err := runner.Generate(ctx, opts)
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Seed %d failed", opts.Seed))
			return err
		}
		s := surveySample{
			placed: float64(res.Stats.Placed),
			millis: float64(res.Stats.Total) / float64(time.Millisecond),
		}
		if res.Network != nil {
			s.edges = float64(len(res.Network.Edges()))
		}
		samples = append(samples, s)
		prog.step("Seed surveyed", "seed", opts.Seed, "placed", res.Stats.Placed, "edges", int(s.edges))
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Surveyed %d seeds", runs))

	p := base.Parameters()
	printSuccess("Surveyed seeds %d..%d of a %dx%d %s galaxy with %d arms and %d stars",
		first, first+uint64(runs)-1, p.Size, p.Size, p.Type, p.Arms, p.Stars)
	rows, err := summarizeSurvey(samples)
	if err != nil {
		return err
	}
	fmt.Println(surveyTable(rows))
	return nil
}

// surveyRow is one summarized metric.
type surveyRow struct {
	Metric              string
	Mean, Median, Stdev float64
	Min, P90, Max       float64
}

// summarizeSurvey reduces samples to one row per metric.
func summarizeSurvey(samples []surveySample) ([]surveyRow, error) {
	metrics := []struct {
		name string
		get  func(surveySample) float64
	}{
		{"Stars placed", func(s surveySample) float64 { return s.placed }},
		{"Hyperlane edges", func(s surveySample) float64 { return s.edges }},
		{"Time (ms)", func(s surveySample) float64 { return s.millis }},
	}

	rows := make([]surveyRow, 0, len(metrics))
	for _, m := range metrics {
		data := make(stats.Float64Data, len(samples))
		for i, s := range samples {
			data[i] = m.get(s)
		}
		row, err := summarize(m.name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func summarize(name string, data stats.Float64Data) (surveyRow, error) {
	row := surveyRow{Metric: name}
	var err error
	if row.Mean, err = data.Mean(); err != nil {
		return row, err
	}
	if row.Median, err = data.Median(); err != nil {
		return row, err
	}
	if row.Stdev, err = data.StandardDeviation(); err != nil {
		return row, err
	}
	if row.Min, err = data.Min(); err != nil {
		return row, err
	}
	if row.Max, err = data.Max(); err != nil {
		return row, err
	}
	if row.P90, err = data.Percentile(90); err != nil {
		return row, err
	}
	return row, nil
}

func surveyTable(rows []surveyRow) string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.Metric,
			fmt.Sprintf("%.1f", r.Mean),
			fmt.Sprintf("%.1f", r.Median),
			fmt.Sprintf("%.1f", r.Stdev),
			fmt.Sprintf("%.0f", r.Min),
			fmt.Sprintf("%.0f", r.P90),
			fmt.Sprintf("%.0f", r.Max),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Mean", "Median", "Stdev", "Min", "P90", "Max").
		Rows(out...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		Render()
}

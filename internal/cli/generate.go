package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/galaxygen/pkg/pipeline"
)

// generateFlags are the command-line overrides of the settings file.
type generateFlags struct {
	size    int
	arms    int
	stars   int
	typ     string
	seed    uint64
	formats string
	output  string
	manual  bool
	noCache bool
	refresh bool
	report  bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Paint a galaxy",
		Long: `Paint a galaxy and write the enabled artifacts.

Parameters come from the [parameters] section of the settings file and can be
overridden with flags. With --manual, or manual = true in the settings file,
they are asked for interactively.

Outputs are chosen by the [export] section (galaxy.png, galaxy_layers.zip) or
by --format, which also accepts json, dot and svg for the star and hyperlane
data and thumb for a 256 pixel preview. Runs with --seed are reproducible
and cached.`,
		Example: `  galaxygen generate
  galaxygen generate --size 1000 --arms 5 --type barred --seed 42
  galaxygen generate --format png,zip,svg -o out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.generateOptions(cmd, f)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, f)
		},
	}

	p := c.Settings.Parameters
	cmd.Flags().IntVar(&f.size, "size", p.Size, "image edge length in pixels")
	cmd.Flags().IntVar(&f.arms, "arms", p.Arms, "number of spiral arms (at least 3)")
	cmd.Flags().IntVar(&f.stars, "stars", p.Stars, "number of star spawn attempts")
	cmd.Flags().StringVarP(&f.typ, "type", "t", p.Type, "galaxy type (see 'galaxygen types')")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed; 0 picks one")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&f.manual, "manual", false, "ask for the parameters interactively")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "regenerate even when cached")
	cmd.Flags().BoolVar(&f.report, "report", true, "print the timing report")

	_ = cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return c.Settings.ProfileNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// generateOptions merges settings, flags and, in manual mode, the prompt.
// Flag defaults are bound before the settings file is read, so only flags
// given on the command line override it.
func (c *CLI) generateOptions(cmd *cobra.Command, f generateFlags) (pipeline.Options, error) {
	opts := pipeline.OptionsFromSettings(c.Settings)

	if c.Settings.Manual || f.manual {
		params, err := promptParameters(cmd.Context(), c.Settings.Parameters, c.Settings.ProfileNames())
		if err != nil {
			return opts, err
		}
		opts.Size, opts.Arms, opts.Stars, opts.Type = params.Size, params.Arms, params.Stars, params.Type
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		opts.Size = f.size
	}
	if flags.Changed("arms") {
		opts.Arms = f.arms
	}
	if flags.Changed("stars") {
		opts.Stars = f.stars
	}
	if flags.Changed("type") {
		opts.Type = f.typ
	}
	if f.formats != "" {
		opts.Formats = parseFormats(f.formats)
	}
	opts.Seed = f.seed
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts, nil
}

// runGenerate executes the pipeline and writes each artifact.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, f generateFlags) error {
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if len(opts.Formats) == 0 {
		printWarning("No export enabled; the galaxy will not be saved")
	}

	msg := "Painting galaxy..."
	if opts.Seed != 0 {
		msg = fmt.Sprintf("Painting galaxy %d...", opts.Seed)
	}
	spinner := newSpinner(ctx, os.Stderr, msg)
	spinner.Start()

	result, err := runner.Generate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, f.output)
	if err != nil {
		return err
	}

	p := result.Parameters
	printSuccess("Generated %dx%d %s galaxy with %d arms", p.Size, p.Size, p.Type, p.Arms)
	printStats(result.Stats.Placed, result.Stats.Requested, result.Seed, result.CacheHit)
	for _, path := range paths {
		printFile(path)
	}
	printDetail("%s", result.Stats.Summary())

	if f.report && !result.CacheHit {
		printNewline()
		fmt.Println(timingsTable(result.Stats))
	}
	if f.seed == 0 {
		printNewline()
		printNextStep("Reproduce this galaxy", fmt.Sprintf("%s generate --seed %d", appName, result.Seed))
	}
	return nil
}

// writeArtifacts writes artifacts into dir under their standard names and
// returns the written paths with their sizes.
func writeArtifacts(artifacts map[string][]byte, formats []string, dir string) ([]string, error) {
	if len(formats) > 0 {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	var written []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := filepath.Join(dir, pipeline.FileNames[format])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(len(data)))))
	}
	return written, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

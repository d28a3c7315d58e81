// Command mapposter generates stylized map posters for a named city.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mapposter/mapposter/internal/config"
	"github.com/mapposter/mapposter/internal/logger"
	"github.com/mapposter/mapposter/internal/poster"
)

func main() {
	_ = godotenv.Load()

	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n✗ Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	city         string
	country      string
	countryLabel string
	theme        string
	allThemes    bool
	distance     int
	format       string
	listThemes   bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "mapposter",
		Short:         "Generate beautiful map posters for any city",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// bare invocation is a request for help, not an error
			if len(os.Args) == 1 {
				printExamples(cmd.OutOrStdout())
				return nil
			}
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.city, "city", "c", "", "city name")
	cmd.Flags().StringVarP(&opts.country, "country", "C", "", "country name")
	cmd.Flags().StringVar(&opts.countryLabel, "country-label", "", "override country text displayed on poster")
	cmd.Flags().StringVarP(&opts.theme, "theme", "t", "feature_based", "theme name")
	cmd.Flags().BoolVar(&opts.allThemes, "all-themes", false, "generate posters for all themes")
	cmd.Flags().IntVarP(&opts.distance, "distance", "d", 0, "map radius in meters (default 12000)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "png", "output format: png, svg, pdf")
	cmd.Flags().BoolVar(&opts.listThemes, "list-themes", false, "list all available themes")

	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   true,
		Component: "mapposter",
	}, os.Stderr)

	app, err := buildApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	if opts.listThemes {
		listThemes(cmd.OutOrStdout(), app)
		return nil
	}

	if opts.city == "" || opts.country == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: --city and --country are required.")
		printExamples(cmd.OutOrStdout())
		return fmt.Errorf("missing required arguments")
	}

	switch opts.format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("unsupported format %q (choose png, svg or pdf)", opts.format)
	}

	available := app.themes.List()
	if len(available) == 0 {
		return fmt.Errorf("no themes found in themes directory")
	}
	if !opts.allThemes && !contains(available, opts.theme) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: Theme %q not found.\n", opts.theme)
		fmt.Fprintf(cmd.ErrOrStderr(), "Available themes: %s\n", strings.Join(available, ", "))
		return fmt.Errorf("unknown theme %q", opts.theme)
	}

	distance := opts.distance
	if distance == 0 {
		distance = cfg.DefaultDistance
	}

	req := poster.Request{
		City:         opts.city,
		Country:      opts.country,
		Theme:        opts.theme,
		Distance:     distance,
		Format:       opts.format,
		CountryLabel: opts.countryLabel,
	}

	if opts.allThemes {
		if _, err := app.generator.GenerateAll(cmd.Context(), req); err != nil {
			log.Error().Err(err).Msg("poster generation failed")
			return err
		}
	} else {
		if _, err := app.generator.Generate(cmd.Context(), req); err != nil {
			log.Error().Err(err).Msg("poster generation failed")
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Poster generation complete!")
	return nil
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

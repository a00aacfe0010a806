package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Nxdus/casualty-api/config"
	"github.com/Nxdus/casualty-api/plot"
	"github.com/Nxdus/casualty-api/report"
	"github.com/Nxdus/casualty-api/services"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:          "casualtyctl",
		Short:        "Fetch and chart casualty data from the Tech for Palestine API",
		SilenceUsage: true,
	}

	newFetcher := func() *services.HTTPFetcher {
		cfg := config.Load()
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		return services.NewHTTPFetcher(cfg.BaseURL, services.WithTimeout(cfg.FetchTimeout))
	}

	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (defaults to CASUALTY_API_BASE_URL or "+services.DefaultBaseURL+")")

	cmd.AddCommand(
		newTotalCmd(newFetcher),
		newFetchCmd(newFetcher),
		newPlotCmd(newFetcher),
		newResourcesCmd(),
	)
	return cmd
}

func newTotalCmd(newFetcher func() *services.HTTPFetcher) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the total number of people killed in Gaza and the West Bank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.PrintTotalKilled(cmd.Context(), newFetcher(), cmd.OutOrStdout())
		},
	}
}

func newFetchCmd(newFetcher func() *services.HTTPFetcher) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <resource>",
		Short: "Write the raw JSON of one resource to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, ok := services.ParseResource(args[0])
			if !ok {
				return fmt.Errorf("%w: %s (one of %s)", services.ErrUnknownResource, args[0], resourceNames())
			}

			payload, err := newFetcher().Fetch(cmd.Context(), resource)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(payload.Body, '\n'))
			return err
		},
	}
}

func newPlotCmd(newFetcher func() *services.HTTPFetcher) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the daily Gaza casualty chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := newFetcher().FetchDailyCasualtiesGaza(cmd.Context())
			if err != nil {
				return err
			}
			return writeChart(out, func(w io.Writer) error {
				return plot.RenderDailyCasualties(payload.Body, w, plot.WithFormat(format))
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "daily_casualties.png", "output file")
	cmd.Flags().StringVar(&format, "format", "png", "image format (png, svg, pdf, jpg)")
	return cmd
}

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the known resources",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, r := range services.Resources() {
				path, _ := r.Path()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r, path)
			}
		},
	}
}

func writeChart(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return render(f)
}

func resourceNames() string {
	names := make([]string, 0, len(services.Resources()))
	for _, r := range services.Resources() {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

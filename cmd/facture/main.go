package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Mohamed-kissame/Facture-v2/invoice"
	"github.com/Mohamed-kissame/Facture-v2/pdf"
	"github.com/Mohamed-kissame/Facture-v2/server"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "facture",
		Short: "Invoice template designer backend and PDF generator",
		Long: `Facture renders invoice layouts designed in the browser UI to PDF
documents. It can run as the HTTP backend of the designer or generate a
single document from a payload file.`,
		Example: `  facture serve --config facture.yaml
  facture generate payload.json -o invoice.pdf
  facture version`,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newServeCommand() *cobra.Command {
	var configFile string
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			defer srv.Close()
			return srv.Start()
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides config)")
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var output string
	var currency string

	cmd := &cobra.Command{
		Use:   "generate [payload.json]",
		Short: "Render a payload file to a PDF document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
				payload = data
			}

			inv, err := invoice.New(payload)
			if err != nil {
				return err
			}

			gen := pdf.NewGenerator(pdf.WithCurrency(pdf.CurrencyFor(currency)))
			data, err := gen.Generate(inv)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "invoice.pdf", "Output PDF path")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency style (USD or EUR)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("facture %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Printf("  go:     %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

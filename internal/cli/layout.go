package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltlab/sldraw/pkg/sld"
)

// newLayoutCmd creates the layout command, which computes positions for
// every unpinned component of a document and writes the placed document
// back as JSON.
func newLayoutCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "layout <document.json>",
		Short: "Compute positions for a diagram document",
		Long: `Layout reads a diagram document, computes coordinates for every
component that has none, and writes the fully placed document as JSON.
Components that already carry coordinates are left where they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			doc, err := sld.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			engine, err := engineFromConfig(configPath)
			if err != nil {
				return err
			}

			result := engine.Layout(doc)
			for _, w := range result.Warnings {
				logger.Warn("layout anomaly", "code", w.Code, "detail", w.Message)
			}

			placed := &sld.Document{Components: result.Placed, Connections: doc.Connections}
			data, err := sld.MarshalDocument(placed)
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}

			if outPath == "" || outPath == "-" {
				fmt.Fprintln(os.Stdout, string(data))
			} else if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			prog.done(fmt.Sprintf("Placed %d components (height %.0f)",
				len(result.Placed), result.TotalHeight))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file overriding layout geometry and ranks")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/money"
)

func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the configured product catalog",
		Long: `Load the catalog from CATALOG_SOURCE exactly as the service would at
startup and print it in catalog order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}

			cat, err := loadCatalog(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return WrapExitError(ExitFailure, "load catalog", err)
			}
			return writeCatalog(cmd.OutOrStdout(), rootOpts.Format, cat)
		},
	}
}

func writeCatalog(w io.Writer, format string, cat *catalog.Catalog) error {
	if format == "json" {
		data, err := json.MarshalIndent(cat.Products(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal catalog: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, p := range cat.Products() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, money.Format(p.Price))
	}
	return tw.Flush()
}

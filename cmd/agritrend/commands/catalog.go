package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yuehlin/agritrend/internal/catalog"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "列出品種代碼與市場目錄",
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "代號\t品種")
	for _, c := range catalog.Commodities() {
		fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n市場: %s\n", strings.Join(catalog.Markets(), ", "))
	return nil
}

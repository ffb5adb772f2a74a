package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eqpop/poptracker/internal/domain/flags"
)

var catalogFile string

var catalogCMD = &cobra.Command{
	Use:   "catalog",
	Short: "validate and print the flag catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := flags.LoadCatalog(catalogFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tNAME\tCATEGORY\tDEPENDS ON")
		for _, def := range catalog.All() {
			deps := strings.Join(def.DependsOn, ", ")
			if deps == "" {
				deps = "-"
			}
			category := def.Category
			if category == "" {
				category = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Key, def.Name, category, deps)
		}
		if err = w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d flags, root %q, terminal %q\n", catalog.Len(), catalog.Root().Key, catalog.Terminal().Key)
		return nil
	},
}

func init() {
	catalogCMD.Flags().StringVar(&catalogFile, "file", "", "catalog TOML file (defaults to the built in Planes of Power catalog)")
	rootCmd.AddCommand(catalogCMD)
}

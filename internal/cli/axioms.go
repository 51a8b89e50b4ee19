package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hallucheck/internal/axiom"
)

var axiomsJSON bool

// axiomsCmd represents the axioms command
var axiomsCmd = &cobra.Command{
	Use:   "axioms",
	Short: "List the nine screening axioms",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAxioms(cmd.OutOrStdout(), axiomsJSON)
	},
}

func init() {
	rootCmd.AddCommand(axiomsCmd)

	axiomsCmd.Flags().BoolVar(&axiomsJSON, "json", false, "output as JSON")
}

func printAxioms(w io.Writer, asJSON bool) error {
	all := axiom.All()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	for _, a := range all {
		marker := ""
		if a.Advisory {
			marker = " (advisory)"
		}
		fmt.Fprintf(w, "%s  %s%s\n", a.ID, a.Short, marker)
		fmt.Fprintf(w, "    %s\n", a.Description)
	}
	return nil
}

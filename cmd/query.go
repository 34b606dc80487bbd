package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/dbgmodel/internal/model"
)

var (
	queryCached bool
	queryValues bool
)

func init() {
	queryCmd.Flags().BoolVar(&queryCached, "cached", false, "Walk the cached view only, never fetch")
	queryCmd.Flags().BoolVar(&queryValues, "values", false, "Include leaf attribute values (implies --cached)")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <pattern>",
	Short: "Evaluate a path pattern against the model",
	Long: `Evaluate a path pattern against the configured model and print every
matching path in canonical order.

Pattern syntax: dot-separated segments; "[]" matches any index, an empty
name segment matches any name. Example:

  dbgmodel -d model.db query 'Processes[].Threads[]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(!queryCached && !queryValues)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if queryValues {
			matches, err := s.QueryValues(args[0])
			if err != nil {
				return err
			}
			for _, m := range matches {
				if _, ok := m.Value.(model.Object); ok {
					fmt.Printf("%s = <object>\n", m.Path)
					continue
				}
				fmt.Printf("%s = %s\n", m.Path, oj.JSON(m.Value))
			}
			fmt.Printf("%d match(es)\n", len(matches))
			return nil
		}

		matches, err := s.Query(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Println(m.Path)
		}
		fmt.Printf("%d match(es)\n", len(matches))
		return nil
	},
}

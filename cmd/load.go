package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/dbgmodel/api"
	"github.com/agentic-research/dbgmodel/internal/model"
)

func init() {
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <snapshot.json> <out.db>",
	Short: "Build a sqlite model store from a JSON snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		snap, err := api.DecodeSnapshot(data)
		if err != nil {
			return err
		}
		if err := model.WriteSnapshot(args[1], snap); err != nil {
			return err
		}

		// Reopen to report what was written.
		store, err := model.OpenSQLite(args[1])
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		root, err := store.Root()
		if err != nil {
			return err
		}
		indices, err := store.ElementIndices(root)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (snapshot %q, %d root elements)\n",
			args[1], snap.Version, indices.GetCardinality())
		return nil
	},
}

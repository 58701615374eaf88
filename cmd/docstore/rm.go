package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docstore/docstore"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove documents and persist the removal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		removed, err := store.Remove(cmd.Context(), docstore.ByID(args...))
		if err != nil {
			return err
		}
		for _, doc := range removed {
			fmt.Println(doc.ID)
		}
		if len(removed) == 0 {
			fmt.Println("no matching documents")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var mergeFlag bool

var setCmd = &cobra.Command{
	Use:   "set <id> <json>",
	Short: "Store a document and persist it",
	Long: `Store the JSON value under the given id and wait until it is durable.
Use "-" as the id to derive it from the document's primary-key field or
generate a fresh one. With --merge the value is deep-merged into the
existing document instead of replacing it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if id == "-" {
			id = ""
		}
		var doc interface{}
		if err := json.Unmarshal([]byte(args[1]), &doc); err != nil {
			return fmt.Errorf("invalid JSON document: %w", err)
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if mergeFlag {
			partial, ok := doc.(map[string]interface{})
			if !ok {
				return fmt.Errorf("--merge requires an object document")
			}
			id, err = store.Merge(cmd.Context(), id, partial)
		} else {
			id, err = store.Save(cmd.Context(), id, doc)
		}
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVar(&mergeFlag, "merge", false, "deep-merge into the existing document")
	rootCmd.AddCommand(setCmd)
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listLong   bool
	listSortBy string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List document ids (or full documents with --long)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if !listLong && listSortBy == "" {
			for _, id := range store.Keys() {
				fmt.Println(id)
			}
			return nil
		}

		query := store.Query()
		if listSortBy != "" {
			query = query.SortBy(listSortBy)
		}
		for _, doc := range query.Run() {
			if !listLong {
				fmt.Println(doc.ID)
				continue
			}
			out, err := json.Marshal(doc.Value)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", doc.ID, out)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "print full documents")
	listCmd.Flags().StringVar(&listSortBy, "sort-by", "", "sort by the named document field")
	rootCmd.AddCommand(listCmd)
}

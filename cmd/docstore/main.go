// Command docstore is a small CLI over file-backed document stores: get,
// set, remove and list documents in a store directory, or watch a store file
// for changes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

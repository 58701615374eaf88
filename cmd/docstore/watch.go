package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the store whenever its backing file changes",
	Long: `Watch the store's backing file and reload it on every write,
printing the document count. Useful while another tool edits the file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()

		// Watch the directory: editors and the store itself replace the
		// file via rename, which drops a watch on the file itself.
		if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
			return err
		}

		fmt.Printf("watching %s (%d documents)\n", store.Path(), store.Count())
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != store.Path() {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if _, err := store.Reload(cmd.Context()); err != nil {
					slog.Warn("reload failed", "error", err)
					continue
				}
				fmt.Printf("reloaded %s (%d documents)\n", store.Path(), store.Count())
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				slog.Warn("watch error", "error", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"modgraph/internal/storage"
)

var snapshotLimit int

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored module graph snapshots",
	Long:  "List, show and delete analyses stored with `modgraph modules --save`.",
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	Args:  cobra.NoArgs,
	Run:   runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotShow,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotDelete,
}

func init() {
	snapshotListCmd.Flags().IntVar(&snapshotLimit, "limit", 20, "Maximum snapshots to list (0 for all)")

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// withSnapshots opens the database for the duration of fn.
func withSnapshots(fn func(*storage.SnapshotRepository) (interface{}, error)) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)

	db, err := openStorage(repoRoot, cfg, logger)
	if err != nil {
		exitWithError(err)
	}
	resp, err := fn(storage.NewSnapshotRepository(db))
	_ = db.Close()
	if err != nil {
		exitWithError(err)
	}
	printResponse(resp)
}

func runSnapshotList(cmd *cobra.Command, args []string) {
	withSnapshots(func(repo *storage.SnapshotRepository) (interface{}, error) {
		list, err := repo.List(snapshotLimit)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []storage.SnapshotSummary{}
		}
		return &SnapshotListResponseCLI{Snapshots: list}, nil
	})
}

func runSnapshotShow(cmd *cobra.Command, args []string) {
	withSnapshots(func(repo *storage.SnapshotRepository) (interface{}, error) {
		snap, err := repo.Get(args[0])
		if err != nil {
			return nil, err
		}
		return &SnapshotResponseCLI{Snapshot: snap}, nil
	})
}

func runSnapshotDelete(cmd *cobra.Command, args []string) {
	withSnapshots(func(repo *storage.SnapshotRepository) (interface{}, error) {
		if err := repo.Delete(args[0]); err != nil {
			return nil, err
		}
		return &SnapshotDeleteResponseCLI{ID: args[0], Deleted: true}, nil
	})
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/rowsource/sqlrows"
	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/serializer/xmlrow"
	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/sink/feedfile"
	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dbfeed-cli/internal/core/services"
)

// traverser is injected by tests; when nil, runTraverse wires the real
// service from the configuration file.
var traverser driving.Traverser

var traverseCmd = &cobra.Command{
	Use:   "traverse",
	Short: "Run one traversal pass over the configured database",
	Long: `Runs a single traversal pass: executes the configured query, converts
each row into a document, compares it against the stored snapshot, and
writes added, changed and deleted documents to the feed file.`,
	RunE: runTraverse,
}

func init() {
	rootCmd.AddCommand(traverseCmd)
}

func runTraverse(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trav := traverser
	if trav == nil {
		wired, cleanup, err := wireTraversal()
		if err != nil {
			return err
		}
		defer cleanup()
		trav = wired
	}

	cmd.Println("Starting traversal pass...")
	if err := trav.Traverse(ctx); err != nil {
		return fmt.Errorf("traversal failed: %w", err)
	}

	status, err := trav.Status(ctx)
	if err == nil && status != nil {
		cmd.Printf("Traversal complete: %d rows processed, %d failed, %d delivered, %d deleted\n",
			status.RowsProcessed, status.RowsFailed,
			status.DocumentsDelivered, status.DocumentsDeleted)
	}
	return nil
}

// wireTraversal assembles the real traversal service and its adapters
// from the configuration file. The returned cleanup closes them in
// reverse dependency order.
func wireTraversal() (driving.Traverser, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return newTraversal(cfg)
}

func loadConfig() (*file.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = file.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := file.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newTraversal(cfg *file.Config) (driving.Traverser, func(), error) {
	store, err := sqlite.NewStore(cfg.Output.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	source, err := sqlrows.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Query)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	sink, err := feedfile.New(cfg.Output.FeedPath)
	if err != nil {
		source.Close()
		store.Close()
		return nil, nil, err
	}

	factory, err := services.NewDocumentFactory(cfg.ConnectorConfig(), xmlrow.New())
	if err != nil {
		sink.Close()
		source.Close()
		store.Close()
		return nil, nil, err
	}

	svc := services.NewTraversalService(source, factory, store.Snapshots(), sink, cfg.Traversal.RowsPerSecond)
	cleanup := func() {
		sink.Close()
		source.Close()
		store.Close()
	}
	return svc, cleanup, nil
}

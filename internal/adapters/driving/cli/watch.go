package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbfeed-cli/internal/logger"
)

// watchDebounce coalesces bursts of file events into one pass.
const watchDebounce = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run traversal passes when the source database changes",
	Long: `Runs an initial traversal pass, then watches the source database file
and re-runs a pass whenever it changes. Only file-backed databases
(sqlite) can be watched. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dbFile, err := watchablePath(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}

	trav, cleanup, err := newTraversal(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cmd.Println("Starting initial traversal pass...")
	if err := trav.Traverse(ctx); err != nil {
		return fmt.Errorf("traversal failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: sqlite writes via WAL and rename, which
	// replaces the inode a per-file watch is bound to.
	if err := watcher.Add(filepath.Dir(dbFile)); err != nil {
		return fmt.Errorf("watching %s: %w", dbFile, err)
	}

	cmd.Printf("Watching %s for changes...\n", dbFile)

	var debounce *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relatedToFile(event.Name, dbFile) {
				continue
			}
			logger.Debug("source change detected: %s", event)
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			pending = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-pending:
			pending = nil
			cmd.Println("Source changed, starting traversal pass...")
			if err := trav.Traverse(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("traversal pass failed: %v", err)
			}
		}
	}
}

// watchablePath extracts the database file path from the DSN. Only
// file-backed drivers can be watched.
func watchablePath(driver, dsn string) (string, error) {
	if driver != "sqlite" {
		return "", fmt.Errorf("watch requires a file-backed database, got driver %q", driver)
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return "", fmt.Errorf("cannot watch in-memory database %q", dsn)
	}
	return path, nil
}

// relatedToFile reports whether an event path concerns the database
// file or one of its sidecar files (WAL, journal).
func relatedToFile(eventPath, dbFile string) bool {
	return strings.HasPrefix(filepath.Clean(eventPath), filepath.Clean(dbFile))
}

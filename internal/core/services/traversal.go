package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dbfeed-cli/internal/logger"
	"github.com/custodia-labs/dbfeed-cli/internal/metrics"
)

// Ensure TraversalService implements the interface.
var _ driving.Traverser = (*TraversalService)(nil)

// TraversalService runs traversal passes: it drains the row source,
// feeds each row to a per-pass Differ, and sweeps deletions after a
// clean drain. Per-row failures are logged and counted; the pass
// continues, and the failed rows are retried on the next pass.
type TraversalService struct {
	source  driven.RowSource
	factory *DocumentFactory
	store   driven.SnapshotStore
	sink    driven.DocumentSink
	limiter *rate.Limiter

	mu     sync.RWMutex
	status *driving.TraversalStatus
}

// NewTraversalService creates a traversal service. rowsPerSecond caps
// the row processing rate; zero means unlimited.
func NewTraversalService(
	source driven.RowSource,
	factory *DocumentFactory,
	store driven.SnapshotStore,
	sink driven.DocumentSink,
	rowsPerSecond float64,
) *TraversalService {
	var limiter *rate.Limiter
	if rowsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(rowsPerSecond), 1)
	}
	return &TraversalService{
		source:  source,
		factory: factory,
		store:   store,
		sink:    sink,
		limiter: limiter,
	}
}

// Traverse runs one full pass over the source.
func (s *TraversalService) Traverse(ctx context.Context) error {
	status := &driving.TraversalStatus{
		PassID:  uuid.NewString(),
		Running: true,
	}
	s.setStatus(status)
	defer s.finishStatus()

	logger.Info("starting traversal pass %s in %s mode", status.PassID, s.factory.Mode())

	differ := NewDiffer(s.factory, s.store, s.sink)
	rowsCh, errsCh := s.source.Rows(ctx)

	for rowsCh != nil || errsCh != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			// A source error means the pass is partial: abort without
			// the deletion sweep.
			return fmt.Errorf("row source: %w", err)

		case row, ok := <-rowsCh:
			if !ok {
				rowsCh = nil
				continue
			}
			if err := s.wait(ctx); err != nil {
				return err
			}
			s.processRow(ctx, differ, row, status)
		}
	}

	// A skipped row never marked its docid as seen, so sweeping after
	// failures would delete documents that still exist at the source.
	// Those rows are retried on the next pass; sweep only when every
	// row made it through.
	s.mu.RLock()
	failed := status.RowsFailed
	s.mu.RUnlock()
	if failed > 0 {
		logger.Warn("traversal pass %s: %d rows failed, skipping deletion sweep", status.PassID, failed)
	} else {
		deleted, err := differ.SweepDeleted(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		status.DocumentsDeleted = deleted
		s.mu.Unlock()
		metrics.DocumentsDeleted.Add(float64(deleted))
	}

	logger.Info("traversal pass %s complete: %d rows, %d failures, %d delivered, %d deleted",
		status.PassID, status.RowsProcessed, status.RowsFailed,
		status.DocumentsDelivered, status.DocumentsDeleted)
	return nil
}

// Status returns a copy of the current or most recent pass state.
func (s *TraversalService) Status(_ context.Context) (*driving.TraversalStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status == nil {
		return &driving.TraversalStatus{}, nil
	}
	copied := *s.status
	return &copied, nil
}

func (s *TraversalService) processRow(ctx context.Context, differ *Differ, row domain.Row, status *driving.TraversalStatus) {
	delivered, err := differ.ProcessRow(ctx, row)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		status.RowsFailed++
		metrics.RowFailures.Inc()
		logger.Warn("row skipped: %v", err)
		return
	}
	status.RowsProcessed++
	metrics.RowsProcessed.Inc()
	if delivered {
		status.DocumentsDelivered++
		metrics.DocumentsDelivered.Inc()
	}
}

func (s *TraversalService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *TraversalService) setStatus(status *driving.TraversalStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *TraversalService) finishStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != nil {
		s.status.Running = false
	}
}

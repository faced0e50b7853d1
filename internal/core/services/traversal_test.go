package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/serializer/xmlrow"
	"github.com/custodia-labs/dbfeed-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// fakeRowSource replays a fixed row slice, optionally ending with an
// error.
type fakeRowSource struct {
	rows []domain.Row
	err  error
}

var _ driven.RowSource = (*fakeRowSource)(nil)

func (s *fakeRowSource) Rows(ctx context.Context) (<-chan domain.Row, <-chan error) {
	rowsCh := make(chan domain.Row)
	errsCh := make(chan error, 1)
	go func() {
		defer close(rowsCh)
		defer close(errsCh)
		for _, row := range s.rows {
			select {
			case rowsCh <- row:
			case <-ctx.Done():
				return
			}
		}
		if s.err != nil {
			errsCh <- s.err
		}
	}()
	return rowsCh, errsCh
}

func (s *fakeRowSource) Close() error { return nil }

func numberedRow(id int) domain.Row {
	return domain.NewRow(
		[]string{"id", "lastName"},
		map[string]any{"id": id, "lastName": "name"},
	)
}

func newTestService(t *testing.T, source driven.RowSource) (*TraversalService, *memory.SnapshotStore, *fakeSink) {
	t.Helper()
	factory, err := NewDocumentFactory(baseConfig(), xmlrow.New())
	require.NoError(t, err)
	store := memory.NewSnapshotStore()
	sink := &fakeSink{}
	return NewTraversalService(source, factory, store, sink, 0), store, sink
}

func TestTraverse_DeliversAllNewRows(t *testing.T) {
	source := &fakeRowSource{rows: []domain.Row{numberedRow(1), numberedRow(2), numberedRow(3)}}
	svc, _, sink := newTestService(t, source)

	err := svc.Traverse(context.Background())

	require.NoError(t, err)
	assert.Len(t, sink.delivered, 3)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Equal(t, 3, status.RowsProcessed)
	assert.Zero(t, status.RowsFailed)
	assert.Equal(t, 3, status.DocumentsDelivered)
	assert.NotEmpty(t, status.PassID)
}

func TestTraverse_SecondPassDeliversNothing(t *testing.T) {
	rows := []domain.Row{numberedRow(1), numberedRow(2)}
	svc, store, sink := newTestService(t, &fakeRowSource{rows: rows})

	require.NoError(t, svc.Traverse(context.Background()))
	firstPass, err := svc.Status(context.Background())
	require.NoError(t, err)

	// Fresh service over the same store simulates the next scheduled
	// pass.
	factory, err := NewDocumentFactory(baseConfig(), xmlrow.New())
	require.NoError(t, err)
	second := NewTraversalService(&fakeRowSource{rows: rows}, factory, store, sink, 0)
	require.NoError(t, second.Traverse(context.Background()))

	secondPass, err := second.Status(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, firstPass.PassID, secondPass.PassID)
	assert.Equal(t, 2, secondPass.RowsProcessed)
	assert.Zero(t, secondPass.DocumentsDelivered)
	assert.Len(t, sink.delivered, 2)
}

func TestTraverse_RowFailureSkipsAndContinues(t *testing.T) {
	bad := domain.NewRow([]string{"other"}, map[string]any{"other": 1})
	source := &fakeRowSource{rows: []domain.Row{numberedRow(1), bad, numberedRow(2)}}
	svc, _, sink := newTestService(t, source)

	err := svc.Traverse(context.Background())

	require.NoError(t, err)
	assert.Len(t, sink.delivered, 2)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.RowsProcessed)
	assert.Equal(t, 1, status.RowsFailed)
}

func TestTraverse_SourceErrorAbortsWithoutSweep(t *testing.T) {
	source := &fakeRowSource{
		rows: []domain.Row{numberedRow(1)},
		err:  errors.New("connection reset"),
	}
	svc, store, sink := newTestService(t, source)
	require.NoError(t, store.Save(context.Background(), domain.Snapshot{
		DocID:    "would-be-swept",
		Checksum: "2222222222222222222222222222222222222222",
	}))

	err := svc.Traverse(context.Background())

	require.Error(t, err)
	assert.Empty(t, sink.deleted)
	_, getErr := store.Get(context.Background(), "would-be-swept")
	assert.NoError(t, getErr)
}

func TestTraverse_SweepsDeletedRows(t *testing.T) {
	store := memory.NewSnapshotStore()
	sink := &fakeSink{}
	factory, err := NewDocumentFactory(baseConfig(), xmlrow.New())
	require.NoError(t, err)

	first := NewTraversalService(&fakeRowSource{rows: []domain.Row{numberedRow(1), numberedRow(2)}}, factory, store, sink, 0)
	require.NoError(t, first.Traverse(context.Background()))

	second := NewTraversalService(&fakeRowSource{rows: []domain.Row{numberedRow(1)}}, factory, store, sink, 0)
	require.NoError(t, second.Traverse(context.Background()))

	status, err := second.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.DocumentsDeleted)
	assert.Len(t, sink.deleted, 1)

	remaining, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

// brokenLob simulates a large object whose content cannot be opened
// this pass, e.g. a dropped connection.
type brokenLob struct{}

func (brokenLob) Open(_ context.Context) (io.ReadCloser, error) {
	return nil, errors.New("connection reset")
}

func (brokenLob) Size() int64 { return -1 }

func TestTraverse_FailedRowNotSweptAsDeleted(t *testing.T) {
	store := memory.NewSnapshotStore()
	sink := &fakeSink{}
	cfg := lobConfig()
	factory, err := NewDocumentFactory(cfg, xmlrow.New())
	require.NoError(t, err)

	// First pass delivers the document normally.
	first := NewTraversalService(
		&fakeRowSource{rows: []domain.Row{lobRow([]byte("hello world"))}},
		factory, store, sink, 0)
	require.NoError(t, first.Traverse(context.Background()))
	require.Len(t, sink.delivered, 1)

	// Second pass: the same row is present at the source but its
	// content cannot be acquired. The row is skipped for this pass, so
	// the sweep must not treat the document as deleted.
	failing := domain.NewRow(
		[]string{"id", "name", "data"},
		map[string]any{"id": 1, "name": "doc", "data": brokenLob{}},
	)
	second := NewTraversalService(
		&fakeRowSource{rows: []domain.Row{failing}},
		factory, store, sink, 0)
	require.NoError(t, second.Traverse(context.Background()))

	status, err := second.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.RowsFailed)
	assert.Zero(t, status.DocumentsDeleted)
	assert.Empty(t, sink.deleted)

	// The snapshot survives, so the next pass retries the row instead
	// of re-adding a freshly deleted document.
	_, err = store.Get(context.Background(), "MQ==")
	assert.NoError(t, err)
}

func TestTraverse_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := &fakeRowSource{rows: []domain.Row{numberedRow(1)}}
	svc, _, sink := newTestService(t, source)

	err := svc.Traverse(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.deleted)
}

func TestStatus_BeforeAnyPass(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeRowSource{})

	status, err := svc.Status(context.Background())

	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Empty(t, status.PassID)
}

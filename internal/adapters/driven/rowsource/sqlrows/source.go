// Package sqlrows streams rows from any database/sql source.
package sqlrows

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/dbfeed-cli/internal/core/domain"
	"github.com/custodia-labs/dbfeed-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RowSource = (*Source)(nil)

// Source runs one configured query per traversal pass and streams the
// result set as immutable domain rows. BLOB columns are materialized
// into re-openable domain.BytesLob values before the row leaves the
// query layer, so handles can be built after the cursor is gone.
type Source struct {
	db    *sql.DB
	query string
}

// New wraps an open database handle.
func New(db *sql.DB, query string) *Source {
	return &Source{db: db, query: query}
}

// Open connects a driver/DSN pair and wraps it.
func Open(driver, dsn, query string) (*Source, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s source: %w", driver, err)
	}
	return New(db, query), nil
}

// Rows starts the query and returns channels for rows and errors.
func (s *Source) Rows(ctx context.Context) (<-chan domain.Row, <-chan error) {
	rowsCh := make(chan domain.Row)
	errsCh := make(chan error, 1)

	go func() {
		defer close(rowsCh)
		defer close(errsCh)

		rows, err := s.db.QueryContext(ctx, s.query)
		if err != nil {
			errsCh <- fmt.Errorf("executing query: %w", err)
			return
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			errsCh <- fmt.Errorf("reading column names: %w", err)
			return
		}

		for rows.Next() {
			row, err := scanRow(rows, columns)
			if err != nil {
				errsCh <- err
				return
			}
			select {
			case rowsCh <- row:
			case <-ctx.Done():
				return
			}
		}
		if err := rows.Err(); err != nil {
			errsCh <- fmt.Errorf("iterating rows: %w", err)
		}
	}()

	return rowsCh, errsCh
}

// Close releases the underlying connection.
func (s *Source) Close() error {
	return s.db.Close()
}

// scanRow reads the current result row into an immutable domain.Row.
func scanRow(rows *sql.Rows, columns []string) (domain.Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return domain.Row{}, fmt.Errorf("scanning row: %w", err)
	}

	mapped := make(map[string]any, len(columns))
	for i, col := range columns {
		switch v := values[i].(type) {
		case []byte:
			mapped[col] = domain.BytesLob(v)
		default:
			mapped[col] = v
		}
	}
	// NewRow copies, so the scan buffers can be reused safely.
	return domain.NewRow(columns, mapped), nil
}

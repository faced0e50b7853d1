// Package metrics exposes the connector's prometheus counters.
//
// The configuration-mismatch fallback and the lob body-size skip are
// recovered locally rather than surfaced as errors, so counters are the
// contract that keeps them observable and testable.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModeFallbacks counts silent fallbacks to metadata feed mode when
	// a requested mode's required column was not configured.
	ModeFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_mode_fallbacks_total",
		Help: "Feed-mode fallbacks to metadata mode due to missing configuration.",
	})

	// RowsProcessed counts rows snapshotted without error.
	RowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_rows_processed_total",
		Help: "Rows snapshotted without error.",
	})

	// RowFailures counts rows skipped due to per-row errors.
	RowFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_row_failures_total",
		Help: "Rows skipped due to processing errors.",
	})

	// DocumentsDelivered counts handles delivered to the sink.
	DocumentsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_documents_delivered_total",
		Help: "Document handles delivered for new or changed rows.",
	})

	// DocumentsDeleted counts docids swept as deleted from the source.
	DocumentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_documents_deleted_total",
		Help: "Documents removed by the deletion sweep.",
	})

	// LobBodiesSkipped counts lob documents delivered metadata-only
	// because the body exceeded the configured size threshold.
	LobBodiesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbfeed_lob_bodies_skipped_total",
		Help: "Large-object bodies skipped for exceeding the size threshold.",
	})
)

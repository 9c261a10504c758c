// Package metrics defines and registers all custom Prometheus metrics for the
// library API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at package load; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BooksCreatedTotal counts books added to the catalog.
// Label:
//   - category: the book's category as entered by the librarian
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books added to the catalog, by category.",
	},
	[]string{"category"},
)

// ── Borrowing metrics ─────────────────────────────────────────────────────────

// BorrowsTotal counts borrow attempts.
// Label:
//   - result: "success", "unavailable", "duplicate", or "error"
var BorrowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrows_total",
		Help:      "Total number of borrow attempts, by result.",
	},
	[]string{"result"},
)

// ReturnsTotal counts return attempts.
// Label:
//   - result: "success" or "error"
var ReturnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "returns_total",
		Help:      "Total number of return attempts, by result.",
	},
	[]string{"result"},
)

// BorrowDedupTotal counts idempotency decisions on borrow submissions.
// Label:
//   - result: "hit" (duplicate, rejected) or "miss" (new request, processed)
var BorrowDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "borrow_dedup_total",
		Help:      "Total number of borrow idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Accrual metrics ───────────────────────────────────────────────────────────

// AccrualRunsTotal counts background fine-accrual runs.
// Label:
//   - result: "success" or "error"
var AccrualRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accrual_runs_total",
		Help:      "Total number of background fine-accrual runs, by result.",
	},
	[]string{"result"},
)

// AccrualRunDuration measures how long one full accrual sweep takes across
// all principals with active borrowings.
var AccrualRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "accrual_run_duration_seconds",
		Help:      "Duration of one full fine-accrual sweep.",
		Buckets:   prometheus.DefBuckets,
	},
)

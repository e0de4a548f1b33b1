// Package metrics exposes Prometheus instrumentation for chain
// operations, in the same promauto-registered-package-var shape as the
// teacher's pkg/metrics/metrics.go.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsAppended counts successful RecordChain.Push calls.
	RecordsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fdc_records_appended_total",
			Help: "Total number of records appended to a chain",
		},
	)

	// ChainVerifications counts Record.Check calls performed while
	// building or extending a chain.
	ChainVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdc_chain_verifications_total",
			Help: "Total number of record signature/chain verifications",
		},
		[]string{"result"},
	)

	// ChainRecoveries counts RecordChain.Recover invocations.
	ChainRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fdc_chain_recoveries_total",
			Help: "Total number of full-chain trapdoor recoveries",
		},
		[]string{"result"},
	)

	// SignatureFailuresTotal counts Schnorr verification failures seen
	// by the chain layer.
	SignatureFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fdc_signature_failures_total",
			Help: "Total number of signature verification failures",
		},
	)

	// DecryptFailuresTotal counts AES-CBC / deserialization failures
	// seen during recovery.
	DecryptFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fdc_decrypt_failures_total",
			Help: "Total number of record decryption failures",
		},
	)

	// RecoveryDuration measures wall-clock time spent inside
	// RecordChain.Recover.
	RecoveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fdc_recovery_duration_seconds",
			Help:    "Duration of full-chain trapdoor recovery",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Package chain implements the append-only, per-subject record chain:
// construction in two strict phases (New then zero or more Push), local
// per-step invariant checking, and trapdoor-based full recovery. There
// is no original_source equivalent of this package (the reference's
// fdc-client-api/src/lib.rs sketch of chain recovery references
// undefined types and methods); its construction and recovery contract
// follow the resolution documented in DESIGN.md.
package chain

import (
	"time"

	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/metrics"
	"github.com/pangea-net/fdc/pkg/record"
	"github.com/pangea-net/fdc/pkg/symmetric"
)

// RecordChain tracks one subject's signed, hash-chained history. All
// operations on a given chain are single-threaded; callers sharing a
// chain across goroutines must serialize externally.
type RecordChain struct {
	ID    string
	Table string
	lhash []byte
	chain []record.Record
}

// New starts a chain from its head record, checking the head's
// signature (I4) and that its hprev equals salt(id, table) (I1) once at
// construction time.
func New(id, table string, head record.Record) (*RecordChain, error) {
	dhash, err := head.Check()
	if err != nil {
		metrics.SignatureFailuresTotal.Inc()
		metrics.ChainVerifications.WithLabelValues("invalid").Inc()
		return nil, err
	}
	metrics.ChainVerifications.WithLabelValues("ok").Inc()

	salt := record.Salt(id, table)
	if !bytesEqual(head.HPrev, salt) {
		return nil, fdcerr.New(fdcerr.NotHeadRecord, "head.hprev does not match salt(id, table)")
	}

	return &RecordChain{
		ID:    id,
		Table: table,
		lhash: dhash,
		chain: []record.Record{head},
	}, nil
}

// Push appends a tail record, checking invariant I2 for the new record
// and advancing lhash to its digest (maintaining I3).
func (c *RecordChain) Push(tail record.Record) error {
	dhash, err := tail.Check()
	if err != nil {
		metrics.SignatureFailuresTotal.Inc()
		metrics.ChainVerifications.WithLabelValues("invalid").Inc()
		return err
	}
	metrics.ChainVerifications.WithLabelValues("ok").Inc()

	if !bytesEqual(tail.HPrev, c.lhash) {
		return fdcerr.New(fdcerr.BrokenChain, "tail.hprev does not match the chain's current head hash")
	}

	c.lhash = dhash
	c.chain = append(c.chain, tail)
	metrics.RecordsAppended.Inc()
	return nil
}

// Len returns the number of records in the chain.
func (c *RecordChain) Len() int { return len(c.chain) }

// Records returns the chain's records in append order (head first). The
// returned slice is owned by the caller; it is a defensive copy.
func (c *RecordChain) Records() []record.Record {
	out := make([]record.Record, len(c.chain))
	copy(out, c.chain)
	return out
}

// LastHash returns the chain's current lhash.
func (c *RecordChain) LastHash() []byte {
	out := make([]byte, len(c.lhash))
	copy(out, c.lhash)
	return out
}

// Recover walks the chain tail-to-head using the master secret scalar
// e, deriving each record's alpha_k = e * record_k.kn internally (the
// reference's single-alpha recover signature cannot decrypt every
// record, since each has its own ephemeral kn). A record's lprev is
// the lambda of the record *before* it (the head-ward neighbor), so
// the check against a freshly decrypted lprev can only be made one
// iteration later, once that head-ward record's own lambda has been
// derived; pendingLPrev carries it across that one-step lag. It
// returns the chain's RDataRef values in original (head-first) order.
func (c *RecordChain) Recover(e group.Scalar) ([]record.RDataRef, error) {
	start := time.Now()
	defer func() { metrics.RecoveryDuration.Observe(time.Since(start).Seconds()) }()
	defer e.Zero()

	n := len(c.chain)
	refs := make([]record.RDataRef, n)

	var pendingLPrev *symmetric.LambdaKey

	for k := n - 1; k >= 0; k-- {
		rec := c.chain[k]

		// Every record's KDF salt equals its own hprev: the head's
		// hprev is salt(id, table) (invariant I1), and each tail's
		// hprev is the previous record's check digest, exactly the
		// "previous record's hash" salt domain described for tails.
		salt := rec.HPrev

		alpha := e.MulPoint(rec.Enc.Kn)
		lambda := symmetric.NewLambdaKey(alpha, salt)
		defer lambda.Zero()

		if pendingLPrev != nil && !pendingLPrev.Equal(lambda) {
			metrics.ChainRecoveries.WithLabelValues("failed").Inc()
			return nil, fdcerr.New(fdcerr.BrokenChain, "recovered lprev does not match the lambda of the record it points to")
		}

		rd, err := tryDecrypt(rec, lambda)
		if err != nil {
			metrics.DecryptFailuresTotal.Inc()
			metrics.ChainRecoveries.WithLabelValues("failed").Inc()
			return nil, err
		}

		refs[k] = rd.Ref
		pendingLPrev = rd.LPrev
	}

	if pendingLPrev != nil {
		metrics.ChainRecoveries.WithLabelValues("failed").Inc()
		return nil, fdcerr.New(fdcerr.BrokenChain, "head record carries an lprev, but the head has no predecessor")
	}

	metrics.ChainRecoveries.WithLabelValues("ok").Inc()
	return refs, nil
}

// tryDecrypt attempts every AES-CBC key width in turn, since the
// scheme used to encrypt a record's RData is not known until the
// RDataRef inside it has been decrypted; ksize lives on the inside.
func tryDecrypt(rec record.Record, lambda symmetric.LambdaKey) (record.RData, error) {
	defer lambda.Zero()
	schemes := []symmetric.EncryptScheme{symmetric.AesCbc128, symmetric.AesCbc192, symmetric.AesCbc256}
	var lastErr error
	for _, scheme := range schemes {
		rd, err := rec.Data(scheme, lambda)
		if err == nil {
			return rd, nil
		}
		lastErr = err
	}
	return record.RData{}, lastErr
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package quota

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CounterWriter is the mutating subset of the counter store.
type CounterWriter interface {
	IncrementRelative(ctx context.Context, accountID uuid.UUID, deltaBytes, deltaFiles int64) error
	OverwriteAbsolute(ctx context.Context, accountID uuid.UUID, bytesUsed, fileCount int64) error
}

// BestEffort wraps a CounterWriter so that write failures cannot propagate.
// The counters are a cache over the object store; failing a user-visible
// upload or delete because the cache could not be updated would trade
// availability for nothing, since the next reconciliation restores the value.
// Failures are logged and reported through the optional OnFailure hook.
type BestEffort struct {
	writer    CounterWriter
	logger    *zap.Logger
	OnFailure func(op string)
}

// NewBestEffort constructs a best-effort counter writer.
func NewBestEffort(writer CounterWriter, logger *zap.Logger) *BestEffort {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BestEffort{writer: writer, logger: logger}
}

// Increment applies a relative delta, absorbing any failure.
func (b *BestEffort) Increment(ctx context.Context, accountID uuid.UUID, deltaBytes, deltaFiles int64) {
	if err := b.writer.IncrementRelative(ctx, accountID, deltaBytes, deltaFiles); err != nil {
		b.report("increment", accountID, err)
	}
}

// Overwrite replaces the counters with absolute values, absorbing any failure.
func (b *BestEffort) Overwrite(ctx context.Context, accountID uuid.UUID, bytesUsed, fileCount int64) {
	if err := b.writer.OverwriteAbsolute(ctx, accountID, bytesUsed, fileCount); err != nil {
		b.report("overwrite", accountID, err)
	}
}

func (b *BestEffort) report(op string, accountID uuid.UUID, err error) {
	b.logger.Warn("counter write failed",
		zap.String("op", op),
		zap.String("account_id", accountID.String()),
		zap.Error(err),
	)
	if b.OnFailure != nil {
		b.OnFailure(op)
	}
}

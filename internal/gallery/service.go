package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/almas-d/gogallery/internal/metrics"
	"github.com/almas-d/gogallery/internal/namespace"
	"github.com/almas-d/gogallery/internal/quota"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// objectGateway is the object store surface the service depends on.
type objectGateway interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Put(ctx context.Context, key string, reader io.Reader, size int64, meta ObjectMetadata) error
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	AccessURL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// counterReader is the read side of the counter store.
type counterReader interface {
	ReadCounters(ctx context.Context, accountID uuid.UUID) (quota.Counters, error)
}

// Service orchestrates uploads, deletions, and listings across the object
// store and the per-account counters. The object store is the source of truth
// for bytes on disk; the counters are a cache this service keeps converged.
type Service struct {
	store    objectGateway
	counters counterReader
	writes   *quota.BestEffort
	policy   quota.Policy
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewService constructs a gallery service.
func NewService(store objectGateway, counters counterReader, writes *quota.BestEffort, policy quota.Policy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		counters: counters,
		writes:   writes,
		policy:   policy,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Upload stores a new object under the account's namespace.
//
// The quota check reads the last persisted counter value, which may be stale;
// concurrent uploads can jointly exceed the limit. The counter increment after
// a successful store is best-effort and never fails the upload.
func (s *Service) Upload(ctx context.Context, accountID uuid.UUID, upload Upload, onProgress ProgressFunc) (StoredObject, error) {
	if upload.Reader == nil {
		return StoredObject{}, fmt.Errorf("missing upload payload")
	}
	if !s.policy.AllowsObject(upload.SizeBytes) {
		return StoredObject{}, ErrObjectTooLarge
	}

	counters, err := s.counters.ReadCounters(ctx, accountID)
	if err != nil {
		// Advisory check only; proceed as if usage were unknown-low.
		s.logger.Warn("quota pre-check unavailable", zap.String("account_id", accountID.String()), zap.Error(err))
	}
	if !s.policy.AllowsUpload(counters.BytesUsed, upload.SizeBytes) {
		return StoredObject{}, ErrQuotaExceeded
	}

	key := namespace.ObjectKeyFor(accountID.String(), upload.Name, s.nowFunc())

	meta := ObjectMetadata{
		ContentType:  upload.ContentType,
		UploadedBy:   accountID.String(),
		OriginalName: upload.Name,
	}
	reader := newProgressReader(upload.Reader, upload.SizeBytes, onProgress)
	if err := s.store.Put(ctx, key, reader, upload.SizeBytes, meta); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return StoredObject{}, err
		}
		return StoredObject{}, fmt.Errorf("store object: %w", err)
	}

	url, err := s.store.AccessURL(ctx, key)
	if err != nil {
		// The object is persisted but unusable to the caller; the counters
		// stay untouched and the next reconciliation picks the object up.
		return StoredObject{}, fmt.Errorf("resolve access url: %w", err)
	}

	s.writes.Increment(ctx, accountID, upload.SizeBytes, 1)
	metrics.UploadedBytes.Add(float64(upload.SizeBytes))

	return StoredObject{
		Key:         key,
		Name:        upload.Name,
		OwnerID:     accountID.String(),
		SizeBytes:   upload.SizeBytes,
		ContentType: upload.ContentType,
		AccessURL:   url,
		IsImage:     isImageContentType(upload.ContentType),
	}, nil
}

// List enumerates the account's objects and reconciles the counters.
//
// Each listed key is resolved to metadata and an access URL individually; an
// object that fails to resolve is dropped from the result instead of failing
// the listing. The counters are then overwritten with the totals computed
// from the survivors, so every listing self-heals whatever drift the
// incremental updates accumulated.
func (s *Service) List(ctx context.Context, accountID uuid.UUID) ([]StoredObject, error) {
	prefix := namespace.PrefixFor(accountID.String())

	keys, err := s.store.ListKeys(ctx, prefix)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			// Account has never uploaded; an absent prefix is an empty gallery.
			keys = nil
		} else {
			return nil, fmt.Errorf("list objects: %w", err)
		}
	}

	objects := make([]StoredObject, 0, len(keys))
	var totalBytes int64
	for _, rawKey := range keys {
		key, err := namespace.Parse(rawKey)
		if err != nil {
			s.logger.Warn("skipping foreign key in namespace", zap.String("key", rawKey), zap.Error(err))
			continue
		}

		resolved, err := s.resolveObject(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unresolvable object", zap.String("key", rawKey), zap.Error(err))
			continue
		}

		objects = append(objects, resolved)
		totalBytes += resolved.SizeBytes
	}

	s.writes.Overwrite(ctx, accountID, totalBytes, int64(len(objects)))
	metrics.ReconciliationPasses.Inc()

	return objects, nil
}

// Delete removes an object owned by the caller.
//
// Ownership is structural: the key's account segment must match the caller.
// An already-deleted object is reported as success so removal is idempotent
// from the caller's view. Counter updates are best-effort; when the size is
// unknown only the file count is decremented and the byte total is left for
// the next reconciliation.
func (s *Service) Delete(ctx context.Context, accountID uuid.UUID, objectKey string, knownSize int64) error {
	key, err := namespace.Parse(objectKey)
	if err != nil {
		return err
	}
	if key.AccountID != accountID.String() {
		return fmt.Errorf("%w: key owned by another account", ErrUnauthorized)
	}

	if err := s.store.Remove(ctx, key.String()); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			// Already gone; the visible listing no longer contains it either way.
			return nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("remove object: %w", err)
	}

	if knownSize > 0 {
		s.writes.Increment(ctx, accountID, -knownSize, -1)
	} else {
		s.writes.Increment(ctx, accountID, 0, -1)
	}

	return nil
}

// Usage returns the account's quota report from the last persisted counters.
func (s *Service) Usage(ctx context.Context, accountID uuid.UUID) (quota.UsageReport, error) {
	counters, err := s.counters.ReadCounters(ctx, accountID)
	if err != nil {
		return quota.UsageReport{}, fmt.Errorf("read counters: %w", err)
	}
	return s.policy.Report(counters), nil
}

func (s *Service) resolveObject(ctx context.Context, key namespace.Key) (StoredObject, error) {
	info, err := s.store.Stat(ctx, key.String())
	if err != nil {
		return StoredObject{}, err
	}

	url, err := s.store.AccessURL(ctx, key.String())
	if err != nil {
		return StoredObject{}, err
	}

	return StoredObject{
		Key:          key.String(),
		Name:         key.ObjectID,
		OwnerID:      key.AccountID,
		SizeBytes:    info.SizeBytes,
		ContentType:  info.ContentType,
		AccessURL:    url,
		IsImage:      isImageContentType(info.ContentType),
		LastModified: info.LastModified,
	}, nil
}

package quota

import (
	"time"

	"github.com/google/uuid"
)

// Counters is the cached per-account aggregate of stored bytes and objects.
// It tracks ground truth eventually: relative increments from uploads and
// deletes may drift, and every listing overwrites it with recomputed totals.
type Counters struct {
	BytesUsed int64 `json:"bytes_used"`
	FileCount int64 `json:"file_count"`
}

// AccountUsage is one account's counter record with its identity fields,
// as returned by the admin listing.
type AccountUsage struct {
	AccountID uuid.UUID  `json:"account_id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	BytesUsed int64      `json:"bytes_used"`
	FileCount int64      `json:"file_count"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UsageReport is the quota view returned to an account.
type UsageReport struct {
	BytesUsed      int64   `json:"bytes_used"`
	FileCount      int64   `json:"file_count"`
	MaxBytes       int64   `json:"max_bytes"`
	PercentOfQuota float64 `json:"percent_of_quota"`
}

// Policy is the process-wide storage quota. Enforcement here is advisory:
// a stale counter snapshot can let concurrent uploads jointly exceed the
// limit, which the next reconciliation makes visible.
type Policy struct {
	MaxBytesPerAccount   int64
	MaxSingleObjectBytes int64
}

// AllowsObject reports whether a single object of the given size is within
// the per-object limit.
func (p Policy) AllowsObject(sizeBytes int64) bool {
	return p.MaxSingleObjectBytes <= 0 || sizeBytes <= p.MaxSingleObjectBytes
}

// AllowsUpload reports whether an upload of sizeBytes fits the account quota
// given the last-known usage.
func (p Policy) AllowsUpload(currentBytesUsed, sizeBytes int64) bool {
	return p.MaxBytesPerAccount <= 0 || currentBytesUsed+sizeBytes <= p.MaxBytesPerAccount
}

// Report derives the usage view for the given counters.
func (p Policy) Report(c Counters) UsageReport {
	report := UsageReport{
		BytesUsed: c.BytesUsed,
		FileCount: c.FileCount,
		MaxBytes:  p.MaxBytesPerAccount,
	}
	if p.MaxBytesPerAccount > 0 {
		report.PercentOfQuota = float64(c.BytesUsed) / float64(p.MaxBytesPerAccount) * 100
	}
	return report
}

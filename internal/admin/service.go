package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/almas-d/gogallery/internal/quota"
)

// accountLister provides the per-account counter records.
type accountLister interface {
	ListAllAccounts(ctx context.Context) ([]quota.AccountUsage, error)
}

// Service produces system-wide usage rollups. It is a pure read over the
// cached counters: it never writes and never triggers reconciliation, so the
// numbers are only as fresh as each account's last listing.
type Service struct {
	accounts accountLister
}

// NewService constructs an admin service.
func NewService(accounts accountLister) *Service {
	return &Service{accounts: accounts}
}

// GlobalUsageReport aggregates usage across every account.
type GlobalUsageReport struct {
	TotalBytes   int64                `json:"total_bytes"`
	TotalFiles   int64                `json:"total_files"`
	AccountCount int                  `json:"account_count"`
	Accounts     []quota.AccountUsage `json:"accounts"`
}

// GlobalUsage reads every counter record and derives totals plus a ranking by
// bytes used, descending.
func (s *Service) GlobalUsage(ctx context.Context) (GlobalUsageReport, error) {
	accounts, err := s.accounts.ListAllAccounts(ctx)
	if err != nil {
		return GlobalUsageReport{}, fmt.Errorf("list accounts: %w", err)
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].BytesUsed > accounts[j].BytesUsed
	})

	report := GlobalUsageReport{
		AccountCount: len(accounts),
		Accounts:     accounts,
	}
	for _, account := range accounts {
		report.TotalBytes += account.BytesUsed
		report.TotalFiles += account.FileCount
	}

	return report, nil
}

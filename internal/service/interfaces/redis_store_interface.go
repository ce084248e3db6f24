package interfaces

import (
	"context"
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

// RedisStoreOperations defines basic Redis operations plus the domain
// helpers built on top of them.
type RedisStoreOperations interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
	TTL(ctx context.Context, key string) (time.Duration, error)

	SaveYearSummary(ctx context.Context, clientID string, category consts.BillCategory,
		fiscalYear int, summary interface{}) error
	GetYearSummary(ctx context.Context, clientID string, category consts.BillCategory,
		fiscalYear int) ([]byte, error)
	InvalidateYearData(ctx context.Context, clientID string, category consts.BillCategory,
		fiscalYear int) error
	AcquireSettlementKey(ctx context.Context, clientID, reference string) (bool, error)
}

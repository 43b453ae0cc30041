package usecase

import (
	"context"
	"time"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

// BalanceStore 使用者點數儲存
// 每次呼叫自身為原子操作，跨呼叫沒有交易保證
type BalanceStore interface {
	// Get 取得點數，不存在時回傳 domain.EmptyUserPoint
	Get(ctx context.Context, userID int64) (domain.UserPoint, error)
	// Set 寫入 (upsert) 點數並壓上目前時間，回傳寫入後的結果
	Set(ctx context.Context, userID int64, points int64) (domain.UserPoint, error)
}

// HistoryStore 點數異動紀錄儲存，只能新增
type HistoryStore interface {
	// Append 新增一筆紀錄，ID 由儲存端遞增分配
	Append(ctx context.Context, userID int64, amount int64, t domain.TransactionType, at time.Time) error
	// GetAll 依新增順序回傳該使用者所有紀錄
	GetAll(ctx context.Context, userID int64) ([]domain.PointHistory, error)
}

// Metrics 點數服務的監控指標
type Metrics interface {
	// ObserveOperation 紀錄一次操作的結果與耗時
	ObserveOperation(op string, result string, elapsed time.Duration)
	// ObserveLockWait 紀錄取得使用者鎖的等待時間
	ObserveLockWait(elapsed time.Duration)
}

// NoopMetrics 不做任何事的 Metrics
type NoopMetrics struct{}

func (NoopMetrics) ObserveOperation(string, string, time.Duration) {}
func (NoopMetrics) ObserveLockWait(time.Duration)                  {}

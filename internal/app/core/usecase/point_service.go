package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
)

// 操作名稱，用於 log 與 metrics
const (
	OpGetPoint     = "get_point"
	OpGetHistories = "get_histories"
	OpCharge       = "charge"
	OpUse          = "use"
)

// PointService 點數核心業務邏輯，是點數異動唯一的寫入路徑
//
// 同一使用者的 Charge/Use 以使用者鎖互斥 (讀取餘額到寫入紀錄為止)，
// 不同使用者之間完全並行。查詢不加鎖。
type PointService struct {
	balances  BalanceStore
	histories HistoryStore
	locks     *userLocks
	logger    *zap.Logger
	metrics   Metrics
}

// Option 定義 PointService 的配置選項函數
type Option func(*PointService)

// WithLogger 設定 logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *PointService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics 設定監控指標
func WithMetrics(metrics Metrics) Option {
	return func(s *PointService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewPointService 建立 PointService
//
// 參數:
//
//	balances: 點數儲存
//	histories: 異動紀錄儲存
//	opts: 可選配置
func NewPointService(balances BalanceStore, histories HistoryStore, opts ...Option) *PointService {
	s := &PointService{
		balances:  balances,
		histories: histories,
		locks:     &userLocks{},
		logger:    zap.NewNop(),
		metrics:   NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPoint 查詢使用者點數
// 不加鎖，可能看到並發異動前或後的值，但不會看到寫到一半的值
func (s *PointService) GetPoint(ctx context.Context, userID int64) (point domain.UserPoint, err error) {
	defer s.observe(OpGetPoint, time.Now(), &err)

	if err = domain.ValidateUserID(userID); err != nil {
		return domain.UserPoint{}, err
	}
	point, err = s.balances.Get(ctx, userID)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("get point of user %d: %w", userID, err)
	}
	return point, nil
}

// GetHistories 依新增順序查詢使用者的異動紀錄，沒有紀錄時回傳空 slice
func (s *PointService) GetHistories(ctx context.Context, userID int64) (histories []domain.PointHistory, err error) {
	defer s.observe(OpGetHistories, time.Now(), &err)

	if err = domain.ValidateUserID(userID); err != nil {
		return nil, err
	}
	histories, err = s.histories.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get histories of user %d: %w", userID, err)
	}
	if histories == nil {
		histories = []domain.PointHistory{}
	}
	return histories, nil
}

// Charge 充值點數
//
// 回傳:
//
//	domain.UserPoint: 充值後點數
//	error: ErrInvalidUser / ErrInvalidAmount / ErrLimitExceeded 或儲存錯誤
func (s *PointService) Charge(ctx context.Context, userID int64, amount int64) (point domain.UserPoint, err error) {
	defer s.observe(OpCharge, time.Now(), &err)
	return s.mutate(ctx, userID, amount, domain.TransactionTypeCharge)
}

// Use 使用點數
//
// 回傳:
//
//	domain.UserPoint: 使用後點數
//	error: ErrInvalidUser / ErrInvalidAmount / ErrInsufficientBalance 或儲存錯誤
func (s *PointService) Use(ctx context.Context, userID int64, amount int64) (point domain.UserPoint, err error) {
	defer s.observe(OpUse, time.Now(), &err)
	return s.mutate(ctx, userID, amount, domain.TransactionTypeUse)
}

// mutate 驗證 -> 鎖定 -> 讀取 -> 計算 -> 寫入點數 -> 寫入紀錄 -> 解鎖
func (s *PointService) mutate(ctx context.Context, userID int64, amount int64, t domain.TransactionType) (domain.UserPoint, error) {
	// 1. 參數檢查 (不碰任何儲存，也不取鎖)
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.UserPoint{}, err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return domain.UserPoint{}, err
	}

	// 2. 取得使用者鎖
	waitStart := time.Now()
	unlock := s.locks.lock(userID)
	defer unlock()
	s.metrics.ObserveLockWait(time.Since(waitStart))

	// 3. 讀取目前點數並計算新點數
	current, err := s.balances.Get(ctx, userID)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("get point of user %d: %w", userID, err)
	}
	next, err := current.Apply(t, amount)
	if err != nil {
		s.logger.Debug("point mutation rejected",
			zap.Int64("user_id", userID),
			zap.Stringer("type", t),
			zap.Int64("amount", amount),
			zap.Int64("current", current.Point),
			zap.Error(err),
		)
		return domain.UserPoint{}, err
	}

	// 4. 寫入點數
	updated, err := s.balances.Set(ctx, userID, next)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("set point of user %d: %w", userID, err)
	}

	// 5. 寫入紀錄，時間與點數的 UpdatedAt 一致
	if err := s.histories.Append(ctx, userID, amount, t, updated.UpdatedAt); err != nil {
		// 紀錄寫入失敗，把點數寫回原值
		if _, rbErr := s.balances.Set(ctx, userID, current.Point); rbErr != nil {
			s.logger.Error("failed to restore point after history append failure",
				zap.Int64("user_id", userID),
				zap.Int64("restore_point", current.Point),
				zap.Error(rbErr),
			)
			return domain.UserPoint{}, errors.Join(
				fmt.Errorf("append history of user %d: %w", userID, err),
				fmt.Errorf("restore point of user %d: %w", userID, rbErr),
			)
		}
		return domain.UserPoint{}, fmt.Errorf("append history of user %d: %w", userID, err)
	}
	return updated, nil
}

func (s *PointService) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveOperation(op, resultOf(*err), time.Since(start))
}

// resultOf 將錯誤轉成 metrics 的 result label
func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidUser):
		return "invalid_user"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "error"
	}
}

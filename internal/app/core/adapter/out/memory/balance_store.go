package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// BalanceStore 以 RWMutex 保護的記憶體點數表
//
// 結構:
//
//	points: 使用者 ID 對應點數
//	mu: 保護 points，單次 Get/Set 為原子操作
//	now: 時間來源，測試可替換
type BalanceStore struct {
	points map[int64]domain.UserPoint
	mu     sync.RWMutex
	now    func() time.Time
}

// NewBalanceStore 建立記憶體點數表
//
// 參數:
//
//	now: 時間來源，nil 時使用 time.Now
func NewBalanceStore(now func() time.Time) *BalanceStore {
	if now == nil {
		now = time.Now
	}
	return &BalanceStore{
		points: make(map[int64]domain.UserPoint),
		now:    now,
	}
}

// Get 取得使用者點數，不存在時回傳 0 點
func (s *BalanceStore) Get(_ context.Context, userID int64) (domain.UserPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	point, ok := s.points[userID]
	if !ok {
		return domain.EmptyUserPoint(userID), nil
	}
	return point, nil
}

// Set 覆寫使用者點數並壓上目前時間
func (s *BalanceStore) Set(_ context.Context, userID int64, points int64) (domain.UserPoint, error) {
	point := domain.UserPoint{
		ID:        userID,
		Point:     points,
		UpdatedAt: s.now(),
	}
	s.mu.Lock()
	s.points[userID] = point
	s.mu.Unlock()
	return point, nil
}

// Len 目前有點數紀錄的使用者數量
func (s *BalanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

var _ usecase.BalanceStore = (*BalanceStore)(nil)

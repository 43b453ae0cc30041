package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// HistoryStore 記憶體中的點數異動紀錄
// ID 為全域遞增序號，每位使用者的紀錄依新增順序保存
type HistoryStore struct {
	mu      sync.RWMutex
	seq     int64
	entries map[int64][]domain.PointHistory
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		entries: make(map[int64][]domain.PointHistory),
	}
}

// Append 新增一筆紀錄
func (s *HistoryStore) Append(_ context.Context, userID int64, amount int64, t domain.TransactionType, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.entries[userID] = append(s.entries[userID], domain.PointHistory{
		ID:        s.seq,
		UserID:    userID,
		Amount:    amount,
		Type:      t,
		UpdatedAt: at,
	})
	return nil
}

// GetAll 回傳紀錄的複本，呼叫端修改不影響內部資料
func (s *HistoryStore) GetAll(_ context.Context, userID int64) ([]domain.PointHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.entries[userID]
	out := make([]domain.PointHistory, len(src))
	copy(out, src)
	return out, nil
}

var _ usecase.HistoryStore = (*HistoryStore)(nil)

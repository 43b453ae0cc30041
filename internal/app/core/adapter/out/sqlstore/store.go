package sqlstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-point/pkg/sqldb"
)

// Migrate 建立 user_points 與 point_histories 表
func Migrate(ctx context.Context, client *sqldb.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(&sqlUserPoint{}, &sqlPointHistory{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// BalanceStore 以 GORM 實作的點數表
// 時間以毫秒存放，讀回來的 UpdatedAt 與寫入時回傳的值一致
type BalanceStore struct {
	client *sqldb.Client
	now    func() time.Time
}

// NewBalanceStore 建立 SQL 點數表，now 為 nil 時使用 time.Now
func NewBalanceStore(client *sqldb.Client, now func() time.Time) *BalanceStore {
	if now == nil {
		now = time.Now
	}
	return &BalanceStore{client: client, now: now}
}

func (s *BalanceStore) Get(ctx context.Context, userID int64) (domain.UserPoint, error) {
	var rows []sqlUserPoint
	result := s.client.DB().WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&rows)
	if result.Error != nil {
		return domain.UserPoint{}, result.Error
	}
	// 不存在時回傳 0 點 (Find 不會產生 ErrRecordNotFound 的 log)
	if len(rows) == 0 {
		return domain.EmptyUserPoint(userID), nil
	}
	return toUserPoint(rows[0]), nil
}

// Set 以 ON CONFLICT upsert 寫入點數
func (s *BalanceStore) Set(ctx context.Context, userID int64, points int64) (domain.UserPoint, error) {
	row := sqlUserPoint{
		ID:           userID,
		Point:        points,
		UpdateMillis: s.now().UnixMilli(),
	}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"point", "update_millis"}),
		}).
		Create(&row).Error
	if err != nil {
		return domain.UserPoint{}, err
	}
	return toUserPoint(row), nil
}

// HistoryStore 以 GORM 實作的異動紀錄表
type HistoryStore struct {
	client *sqldb.Client
}

func NewHistoryStore(client *sqldb.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func (s *HistoryStore) Append(ctx context.Context, userID int64, amount int64, t domain.TransactionType, at time.Time) error {
	row := sqlPointHistory{
		UserID:       userID,
		Amount:       amount,
		Type:         uint8(t),
		UpdateMillis: at.UnixMilli(),
	}
	return s.client.DB().WithContext(ctx).Create(&row).Error
}

func (s *HistoryStore) GetAll(ctx context.Context, userID int64) ([]domain.PointHistory, error) {
	var rows []sqlPointHistory
	if err := s.client.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	histories := make([]domain.PointHistory, 0, len(rows))
	for _, row := range rows {
		histories = append(histories, domain.PointHistory{
			ID:        row.ID,
			UserID:    row.UserID,
			Amount:    row.Amount,
			Type:      domain.TransactionType(row.Type),
			UpdatedAt: time.UnixMilli(row.UpdateMillis),
		})
	}
	return histories, nil
}

func toUserPoint(row sqlUserPoint) domain.UserPoint {
	return domain.UserPoint{
		ID:        row.ID,
		Point:     row.Point,
		UpdatedAt: time.UnixMilli(row.UpdateMillis),
	}
}

var (
	_ usecase.BalanceStore = (*BalanceStore)(nil)
	_ usecase.HistoryStore = (*HistoryStore)(nil)
)

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
)

// Config Redis 連線配置
type Config struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// KeyPrefix key 前綴，預設 "point"
	KeyPrefix string `yaml:"key_prefix"`
}

func NewClient(cfg Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type keys struct {
	prefix string
}

func newKeys(prefix string) keys {
	if prefix == "" {
		prefix = "point"
	}
	return keys{prefix: prefix}
}

func (k keys) balance(userID int64) string { return fmt.Sprintf("%s:user:%d", k.prefix, userID) }
func (k keys) history(userID int64) string { return fmt.Sprintf("%s:history:%d", k.prefix, userID) }
func (k keys) historySeq() string          { return k.prefix + ":history:seq" }

// BalanceStore 點數存在 hash 內 (point, update_millis)
type BalanceStore struct {
	client *goredis.Client
	keys   keys
	now    func() time.Time
}

func NewBalanceStore(client *goredis.Client, keyPrefix string, now func() time.Time) *BalanceStore {
	if now == nil {
		now = time.Now
	}
	return &BalanceStore{client: client, keys: newKeys(keyPrefix), now: now}
}

func (s *BalanceStore) Get(ctx context.Context, userID int64) (domain.UserPoint, error) {
	vals, err := s.client.HGetAll(ctx, s.keys.balance(userID)).Result()
	if err != nil {
		return domain.UserPoint{}, err
	}
	if len(vals) == 0 {
		return domain.EmptyUserPoint(userID), nil
	}
	point, err := strconv.ParseInt(vals["point"], 10, 64)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("parse point of user %d: %w", userID, err)
	}
	millis, err := strconv.ParseInt(vals["update_millis"], 10, 64)
	if err != nil {
		return domain.UserPoint{}, fmt.Errorf("parse update_millis of user %d: %w", userID, err)
	}
	return domain.UserPoint{ID: userID, Point: point, UpdatedAt: time.UnixMilli(millis)}, nil
}

// Set 單一 HSET 寫入兩個欄位，對讀取端為原子
func (s *BalanceStore) Set(ctx context.Context, userID int64, points int64) (domain.UserPoint, error) {
	millis := s.now().UnixMilli()
	if err := s.client.HSet(ctx, s.keys.balance(userID), "point", points, "update_millis", millis).Err(); err != nil {
		return domain.UserPoint{}, err
	}
	return domain.UserPoint{ID: userID, Point: points, UpdatedAt: time.UnixMilli(millis)}, nil
}

// historyRecord 存在 list 內的 JSON 格式
type historyRecord struct {
	ID           int64 `json:"id"`
	UserID       int64 `json:"user_id"`
	Amount       int64 `json:"amount"`
	Type         uint8 `json:"type"`
	UpdateMillis int64 `json:"update_millis"`
}

// HistoryStore 紀錄 ID 由 INCR 分配，依序 RPUSH 至使用者的 list
type HistoryStore struct {
	client *goredis.Client
	keys   keys
}

func NewHistoryStore(client *goredis.Client, keyPrefix string) *HistoryStore {
	return &HistoryStore{client: client, keys: newKeys(keyPrefix)}
}

func (s *HistoryStore) Append(ctx context.Context, userID int64, amount int64, t domain.TransactionType, at time.Time) error {
	id, err := s.client.Incr(ctx, s.keys.historySeq()).Result()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(historyRecord{
		ID:           id,
		UserID:       userID,
		Amount:       amount,
		Type:         uint8(t),
		UpdateMillis: at.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.keys.history(userID), raw).Err()
}

func (s *HistoryStore) GetAll(ctx context.Context, userID int64) ([]domain.PointHistory, error) {
	raws, err := s.client.LRange(ctx, s.keys.history(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	histories := make([]domain.PointHistory, 0, len(raws))
	for _, raw := range raws {
		var rec historyRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode history of user %d: %w", userID, err)
		}
		histories = append(histories, domain.PointHistory{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Amount:    rec.Amount,
			Type:      domain.TransactionType(rec.Type),
			UpdatedAt: time.UnixMilli(rec.UpdateMillis),
		})
	}
	return histories, nil
}

var (
	_ usecase.BalanceStore = (*BalanceStore)(nil)
	_ usecase.HistoryStore = (*HistoryStore)(nil)
)

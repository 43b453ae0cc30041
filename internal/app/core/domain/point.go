package domain

import "time"

// 點數上下限
const (
	// MaxPoint 單一使用者可持有的最大點數
	MaxPoint int64 = 100_000
	// MinAmount 單筆充值/使用的最小金額
	MinAmount int64 = 1
)

// TransactionType 點數異動類型
type TransactionType uint8

const (
	// 充值
	TransactionTypeCharge TransactionType = 1
	// 使用
	TransactionTypeUse TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeCharge:
		return "CHARGE"
	case TransactionTypeUse:
		return "USE"
	default:
		return "UNKNOWN"
	}
}

// ParseTransactionType 將字串轉回 TransactionType
func ParseTransactionType(s string) (TransactionType, bool) {
	switch s {
	case "CHARGE":
		return TransactionTypeCharge, true
	case "USE":
		return TransactionTypeUse, true
	}
	return 0, false
}

// UserPoint 使用者目前的點數
// UpdatedAt 為零值代表尚未有任何異動
type UserPoint struct {
	ID        int64
	Point     int64
	UpdatedAt time.Time
}

// EmptyUserPoint 回傳尚無紀錄的使用者預設點數 (0 點)
func EmptyUserPoint(userID int64) UserPoint {
	return UserPoint{ID: userID}
}

// Charge 計算充值後的點數，不修改 p 本身
//
// 參數:
//
//	amount: 充值金額 (須已通過 ValidateAmount)
//
// 回傳:
//
//	int64: 充值後點數
//	error: 超過 MaxPoint 時回傳 ErrLimitExceeded
func (p UserPoint) Charge(amount int64) (int64, error) {
	// 以減法比較，避免 Point+amount 溢位
	if amount > MaxPoint-p.Point {
		return 0, ErrLimitExceeded
	}
	return p.Point + amount, nil
}

// Use 計算使用後的點數，不修改 p 本身
func (p UserPoint) Use(amount int64) (int64, error) {
	if p.Point < amount {
		return 0, ErrInsufficientBalance
	}
	return p.Point - amount, nil
}

// Apply 依異動類型計算新點數
func (p UserPoint) Apply(t TransactionType, amount int64) (int64, error) {
	switch t {
	case TransactionTypeCharge:
		return p.Charge(amount)
	case TransactionTypeUse:
		return p.Use(amount)
	default:
		return 0, ErrUnknownTransactionType
	}
}

// PointHistory 點數異動紀錄 (只新增不修改)
type PointHistory struct {
	ID        int64
	UserID    int64
	Amount    int64
	Type      TransactionType
	UpdatedAt time.Time
}

// ValidateUserID 檢查使用者 ID 必須為正數
func ValidateUserID(userID int64) error {
	if userID <= 0 {
		return ErrInvalidUser
	}
	return nil
}

// ValidateAmount 檢查金額不得小於 MinAmount
func ValidateAmount(amount int64) error {
	if amount < MinAmount {
		return ErrInvalidAmount
	}
	return nil
}

package domain

import "errors"

var (
	// ErrInvalidUser 使用者 ID 無效 (<= 0)
	ErrInvalidUser = errors.New("invalid user id")

	// ErrInvalidAmount 金額小於最小金額
	ErrInvalidAmount = errors.New("amount must be at least 1")

	// ErrLimitExceeded 充值後超過點數上限
	ErrLimitExceeded = errors.New("point limit exceeded")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUnknownTransactionType 未知的異動類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// IsRejection 判斷 err 是否為業務規則拒絕 (呼叫端可自行處理的錯誤)
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidUser) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrInsufficientBalance)
}

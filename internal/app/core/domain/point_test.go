package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUserID(t *testing.T) {
	for _, id := range []int64{-5, -1, 0} {
		assert.ErrorIs(t, ValidateUserID(id), ErrInvalidUser, "id=%d", id)
	}
	assert.NoError(t, ValidateUserID(1))
}

func TestValidateAmount(t *testing.T) {
	assert.ErrorIs(t, ValidateAmount(-1), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(0), ErrInvalidAmount)
	assert.NoError(t, ValidateAmount(MinAmount))
}

func TestUserPoint_Charge(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		amount  int64
		want    int64
		wantErr error
	}{
		{name: "from zero", current: 0, amount: 1000, want: 1000},
		{name: "exactly max", current: MaxPoint - 500, amount: 500, want: MaxPoint},
		{name: "one over max", current: MaxPoint - 500, amount: 501, wantErr: ErrLimitExceeded},
		{name: "original over max case", current: 90_000, amount: 20_000, wantErr: ErrLimitExceeded},
		{name: "huge amount does not overflow", current: 10, amount: 1<<63 - 1, wantErr: ErrLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserPoint{ID: 1, Point: tt.current}.Charge(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserPoint_Use(t *testing.T) {
	p := UserPoint{ID: 1, Point: 700}

	got, err := p.Use(700)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	_, err = p.Use(701)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(700), p.Point, "Use 不應修改原值")
}

func TestUserPoint_Apply(t *testing.T) {
	p := UserPoint{ID: 1, Point: 100}

	got, err := p.Apply(TransactionTypeCharge, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got)

	got, err = p.Apply(TransactionTypeUse, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)

	_, err = p.Apply(TransactionType(9), 1)
	assert.ErrorIs(t, err, ErrUnknownTransactionType)
}

func TestTransactionType_String(t *testing.T) {
	assert.Equal(t, "CHARGE", TransactionTypeCharge.String())
	assert.Equal(t, "USE", TransactionTypeUse.String())
	assert.Equal(t, "UNKNOWN", TransactionType(0).String())

	tt, ok := ParseTransactionType("USE")
	assert.True(t, ok)
	assert.Equal(t, TransactionTypeUse, tt)
	_, ok = ParseTransactionType("REFUND")
	assert.False(t, ok)
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(fmt.Errorf("wrapped: %w", ErrLimitExceeded)))
	assert.True(t, IsRejection(ErrInvalidUser))
	assert.False(t, IsRejection(errors.New("db down")))
	assert.False(t, IsRejection(nil))
}

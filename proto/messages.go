// Package proto 定義 point.v1.PointService 的 gRPC 介面
//
// 訊息一律使用 google.protobuf.Struct，欄位如下:
//
//	UserRequest:     {user_id}
//	AmountRequest:   {user_id, amount}
//	UserPoint:       {user_id, point, update_millis}
//	HistoriesReply:  {histories: [{id, user_id, amount, type, update_millis}]}
//
// 數值以 double 傳輸，整數必須落在 ±2^53 內。
package proto

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// 欄位名稱
const (
	FieldUserID       = "user_id"
	FieldAmount       = "amount"
	FieldPoint        = "point"
	FieldUpdateMillis = "update_millis"
	FieldHistories    = "histories"
	FieldID           = "id"
	FieldType         = "type"
)

const maxSafeInteger = 1 << 53

// UserPoint 使用者點數的傳輸格式
type UserPoint struct {
	UserID       int64
	Point        int64
	UpdateMillis int64
}

// History 點數異動紀錄的傳輸格式，Type 為 "CHARGE" 或 "USE"
type History struct {
	ID           int64
	UserID       int64
	Amount       int64
	Type         string
	UpdateMillis int64
}

// NewUserRequest 建立只帶 user_id 的請求
func NewUserRequest(userID int64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldUserID: structpb.NewNumberValue(float64(userID)),
	}}
}

// NewAmountRequest 建立帶 user_id 與 amount 的請求
func NewAmountRequest(userID, amount int64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldUserID: structpb.NewNumberValue(float64(userID)),
		FieldAmount: structpb.NewNumberValue(float64(amount)),
	}}
}

// ParseUserRequest 解析 user_id
func ParseUserRequest(req *structpb.Struct) (int64, error) {
	return Int64Field(req, FieldUserID)
}

// ParseAmountRequest 解析 user_id 與 amount
func ParseAmountRequest(req *structpb.Struct) (userID int64, amount int64, err error) {
	if userID, err = Int64Field(req, FieldUserID); err != nil {
		return 0, 0, err
	}
	if amount, err = Int64Field(req, FieldAmount); err != nil {
		return 0, 0, err
	}
	return userID, amount, nil
}

// ToStruct 轉成傳輸用的 Struct
func (p UserPoint) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldUserID:       structpb.NewNumberValue(float64(p.UserID)),
		FieldPoint:        structpb.NewNumberValue(float64(p.Point)),
		FieldUpdateMillis: structpb.NewNumberValue(float64(p.UpdateMillis)),
	}}
}

// ParseUserPoint 從 Struct 解析 UserPoint
func ParseUserPoint(s *structpb.Struct) (UserPoint, error) {
	var (
		p   UserPoint
		err error
	)
	if p.UserID, err = Int64Field(s, FieldUserID); err != nil {
		return UserPoint{}, err
	}
	if p.Point, err = Int64Field(s, FieldPoint); err != nil {
		return UserPoint{}, err
	}
	if p.UpdateMillis, err = Int64Field(s, FieldUpdateMillis); err != nil {
		return UserPoint{}, err
	}
	return p, nil
}

func (h History) toStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:           structpb.NewNumberValue(float64(h.ID)),
		FieldUserID:       structpb.NewNumberValue(float64(h.UserID)),
		FieldAmount:       structpb.NewNumberValue(float64(h.Amount)),
		FieldType:         structpb.NewStringValue(h.Type),
		FieldUpdateMillis: structpb.NewNumberValue(float64(h.UpdateMillis)),
	}}
}

// HistoriesToStruct 將紀錄依原順序包成 {histories: [...]}
func HistoriesToStruct(histories []History) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(histories))
	for _, h := range histories {
		values = append(values, structpb.NewStructValue(h.toStruct()))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldHistories: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// ParseHistories 解析 {histories: [...]}
func ParseHistories(s *structpb.Struct) ([]History, error) {
	v, ok := s.GetFields()[FieldHistories]
	if !ok {
		return nil, fmt.Errorf("missing field %q", FieldHistories)
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("field %q is not a list", FieldHistories)
	}
	histories := make([]History, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		entry := item.GetStructValue()
		if entry == nil {
			return nil, fmt.Errorf("histories[%d] is not an object", i)
		}
		var (
			h   History
			err error
		)
		if h.ID, err = Int64Field(entry, FieldID); err != nil {
			return nil, fmt.Errorf("histories[%d]: %w", i, err)
		}
		if h.UserID, err = Int64Field(entry, FieldUserID); err != nil {
			return nil, fmt.Errorf("histories[%d]: %w", i, err)
		}
		if h.Amount, err = Int64Field(entry, FieldAmount); err != nil {
			return nil, fmt.Errorf("histories[%d]: %w", i, err)
		}
		if h.UpdateMillis, err = Int64Field(entry, FieldUpdateMillis); err != nil {
			return nil, fmt.Errorf("histories[%d]: %w", i, err)
		}
		t, ok := entry.GetFields()[FieldType]
		if !ok {
			return nil, fmt.Errorf("histories[%d]: missing field %q", i, FieldType)
		}
		h.Type = t.GetStringValue()
		histories = append(histories, h)
	}
	return histories, nil
}

// Int64Field 讀取整數欄位，欄位不存在、非數字或帶小數時回傳錯誤
func Int64Field(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("field %q is not an integer", name)
	}
	if f > maxSafeInteger || f < -maxSafeInteger {
		return 0, fmt.Errorf("field %q out of range", name)
	}
	return int64(f), nil
}

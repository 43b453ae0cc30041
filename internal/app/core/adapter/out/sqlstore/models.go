package sqlstore

// sqlUserPoint 對應資料庫的 user_points 表
type sqlUserPoint struct {
	ID           int64 `gorm:"primaryKey;autoIncrement:false"`
	Point        int64 `gorm:"not null"`
	UpdateMillis int64 `gorm:"column:update_millis;not null"`
}

func (*sqlUserPoint) TableName() string {
	return "user_points"
}

// sqlPointHistory 對應資料庫的 point_histories 表
// 以自增 ID 保證同一使用者的紀錄順序
type sqlPointHistory struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	UserID       int64 `gorm:"index;not null"`
	Amount       int64 `gorm:"not null"`
	Type         uint8 `gorm:"not null"`
	UpdateMillis int64 `gorm:"column:update_millis;not null"`
}

func (*sqlPointHistory) TableName() string {
	return "point_histories"
}

package usecase

import "sync"

// userLocks 每個使用者一把互斥鎖
//
// 鎖在第一次異動時建立，之後永不刪除。
// 刪除會和同一使用者的新請求競爭，可能讓同一使用者同時存在兩把鎖。
type userLocks struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// get 取得使用者的鎖，不存在則建立
// LoadOrStore 保證同一 userID 並發第一次存取時只會有一把鎖勝出
func (l *userLocks) get(userID int64) *sync.Mutex {
	if v, ok := l.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := l.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// lock 鎖定使用者並回傳解鎖函式
// 沒有逾時，會一直等到取得鎖為止
func (l *userLocks) lock(userID int64) (unlock func()) {
	mu := l.get(userID)
	mu.Lock()
	return mu.Unlock
}

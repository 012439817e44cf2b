package domain

// Snapshot 帳戶的可持久化表示，WAL / 資料庫 / gRPC 都使用這個格式
type Snapshot struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	State   State   `json:"state"`
}

// Stateful 由嵌入 Base 的帳戶類型自動滿足
type Stateful interface {
	State() State
	SetState(State)
}

// Closer 支援關閉的帳戶類型
type Closer interface {
	Close() bool
}

// TakeSnapshot 取出帳戶目前的欄位值
// 未嵌入 Base 的帳戶一律視為 OPEN
func TakeSnapshot(a Account) Snapshot {
	s := Snapshot{
		Type:    a.Type(),
		Name:    a.Name(),
		Balance: a.Balance(),
		State:   StateOpen,
	}
	if st, ok := a.(Stateful); ok {
		s.State = st.State()
	}
	return s
}

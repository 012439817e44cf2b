package domain

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor 以名稱與初始餘額建立某種類型的帳戶
type Constructor func(name string, balance float64) Account

// Registry 帳戶類型標籤 → 建構函式
//
// 持久化層只保存 Snapshot，還原時透過 Registry 找回具體類型。
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register 註冊類型；重複註冊會覆蓋舊的建構函式
func (r *Registry) Register(label string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[label] = ctor
}

// New 建立新帳戶 (狀態 OPEN)
func (r *Registry) New(label, name string, balance float64) (Account, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[label]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccountType, label)
	}
	return ctor(name, balance), nil
}

// Restore 由 Snapshot 重建帳戶，包含狀態
func (r *Registry) Restore(s Snapshot) (Account, error) {
	a, err := r.New(s.Type, s.Name, s.Balance)
	if err != nil {
		return nil, err
	}
	if s.State == StateOpen {
		return a, nil
	}
	st, ok := a.(Stateful)
	if !ok {
		return nil, fmt.Errorf("%w: type %q cannot hold state %s", ErrInvalidState, s.Type, s.State)
	}
	st.SetState(s.State)
	return a, nil
}

// Labels 已註冊的類型 (排序後)
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors))
	for label := range r.ctors {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

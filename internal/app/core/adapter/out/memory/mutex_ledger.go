package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-core/pkg/wal"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	book: 帳戶資料、已處理交易與 WAL
//	mu: 保護 book，寫入獨占、查詢共享
type MutexLedger struct {
	book *book
	mu   sync.RWMutex
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	registry: 帳戶類型註冊表
//	snapshots: 初始帳戶 (如從資料庫載入)，可為 nil
//	wal: Write-Ahead Log 實例，可為 nil
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewMutexLedger(registry *domain.Registry, snapshots []domain.Snapshot, wal *wal.WAL) (*MutexLedger, error) {
	b, err := newBook(registry, snapshots, wal)
	if err != nil {
		return nil, err
	}
	return &MutexLedger{book: b}, nil
}

// PostTransaction 處理交易請求 (Level 1: Mutex Lock)
func (m *MutexLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.post(tran)
}

// GetAccount 取得指定帳戶的當前狀態
func (m *MutexLedger) GetAccount(ctx context.Context, name string) (domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.get(name)
}

// LoadAllAccounts 回傳所有帳戶的快照
func (m *MutexLedger) LoadAllAccounts(ctx context.Context) ([]domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.all(), nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)

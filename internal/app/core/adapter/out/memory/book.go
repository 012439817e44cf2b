package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/pkg/wal"
)

// book 是兩種記憶體帳本共用的狀態與交易邏輯
// 本身不做任何同步，由外層 (Mutex 或單一 goroutine) 保證序列化存取
type book struct {
	registry *domain.Registry
	accounts map[string]domain.Account
	// 已處理過的交易
	processed map[uuid.UUID]struct{}
	// 最後分配的順序號
	seq uint64
	// Write-Ahead Logging，可為 nil
	wal *wal.WAL
}

func newBook(registry *domain.Registry, snapshots []domain.Snapshot, w *wal.WAL) (*book, error) {
	b := &book{
		registry:  registry,
		accounts:  make(map[string]domain.Account, len(snapshots)),
		processed: make(map[uuid.UUID]struct{}),
		wal:       w,
	}
	for _, s := range snapshots {
		a, err := registry.Restore(s)
		if err != nil {
			return nil, fmt.Errorf("restore account %q: %w", s.Name, err)
		}
		b.accounts[s.Name] = a
	}
	if err := b.recoverFromWAL(); err != nil {
		return nil, err
	}
	return b, nil
}

// recoverFromWAL 依序重放 WAL 中的交易 (不再寫回 WAL)
// WAL 只記錄成功的交易，重放失敗代表檔案與初始帳戶不一致
func (b *book) recoverFromWAL() error {
	if b.wal == nil {
		return nil
	}
	return b.wal.ReadAll(func(jsonRaw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(jsonRaw, &tran); err != nil {
			return err
		}
		if _, ok := b.processed[tran.TransactionID]; ok {
			return nil
		}
		if err := b.apply(&tran); err != nil {
			return fmt.Errorf("replay transaction %s (seq %d): %w", tran.TransactionID, tran.Sequence, err)
		}
		b.processed[tran.TransactionID] = struct{}{}
		if tran.Sequence > b.seq {
			b.seq = tran.Sequence
		}
		return nil
	})
}

// post 執行一筆交易
//
// 1. 冪等檢查 → 2. 套用到記憶體 → 3. 寫入並刷入 WAL (失敗則還原帳戶) → 4. 記錄已處理
func (b *book) post(tran *domain.Transaction) error {
	if _, ok := b.processed[tran.TransactionID]; ok {
		return nil
	}

	before, existed := b.accounts[tran.Account]
	var undo domain.Snapshot
	if existed {
		undo = domain.TakeSnapshot(before)
	}

	if err := b.apply(tran); err != nil {
		return err
	}

	tran.Sequence = b.seq + 1
	if b.wal != nil {
		if err := b.persist(tran); err != nil {
			b.rollback(tran.Account, existed, undo)
			return fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
	}
	b.seq = tran.Sequence
	b.processed[tran.TransactionID] = struct{}{}
	return nil
}

func (b *book) persist(tran *domain.Transaction) error {
	if err := b.wal.Write(tran); err != nil {
		return err
	}
	return b.wal.Flush()
}

func (b *book) rollback(name string, existed bool, undo domain.Snapshot) {
	if !existed {
		delete(b.accounts, name)
		return
	}
	// 同一類型剛剛才成功建立過，Restore 不會失敗
	if a, err := b.registry.Restore(undo); err == nil {
		b.accounts[name] = a
	}
}

func (b *book) apply(tran *domain.Transaction) error {
	if tran.Type == domain.TransactionTypeOpen {
		return b.handleOpen(tran)
	}
	a, ok := b.accounts[tran.Account]
	if !ok {
		return domain.ErrAccountNotFound
	}
	return tran.Apply(a)
}

// handleOpen 開戶
func (b *book) handleOpen(tran *domain.Transaction) error {
	if _, ok := b.accounts[tran.Account]; ok {
		return domain.ErrAccountAlreadyExists
	}
	a, err := b.registry.New(tran.AccountType, tran.Account, tran.Amount)
	if err != nil {
		return err
	}
	b.accounts[tran.Account] = a
	return nil
}

func (b *book) get(name string) (domain.Snapshot, error) {
	a, ok := b.accounts[name]
	if !ok {
		return domain.Snapshot{}, domain.ErrAccountNotFound
	}
	return domain.TakeSnapshot(a), nil
}

// all 依名稱排序回傳所有帳戶
func (b *book) all() []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, domain.TakeSnapshot(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

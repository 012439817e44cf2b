package usecase

import (
	"context"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
)

// Ledger 是帳務系統的介面
type Ledger interface {
	// PostTransaction 不分開戶/存款/提款/關戶，直接看 tran.Type 決定
	// 相同 TransactionID 重送時回傳 nil 且不重複執行
	PostTransaction(ctx context.Context, tran *domain.Transaction) error
	// GetAccount 取得帳戶目前狀態
	GetAccount(ctx context.Context, name string) (domain.Snapshot, error)
	// LoadAllAccounts 載入所有帳戶
	LoadAllAccounts(ctx context.Context) ([]domain.Snapshot, error)
}

package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 開戶
	TransactionTypeOpen TransactionType = 1
	// 存款
	TransactionTypeDeposit TransactionType = 2
	// 提款
	TransactionTypeWithdraw TransactionType = 3
	// 關戶
	TransactionTypeClose TransactionType = 4
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeOpen:
		return "open"
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	case TransactionTypeClose:
		return "close"
	default:
		return fmt.Sprintf("TransactionType(%d)", uint8(t))
	}
}

// Transaction 對單一帳戶的一筆操作，也是 WAL 的一行
type Transaction struct {
	// Sequence: 由帳本分配的順序號，WAL 重放時依此順序
	Sequence uint64 `json:"seq"`
	// Account: 帳戶名稱
	Account string `json:"account"`
	// AccountType: 只有開戶時使用
	AccountType string `json:"account_type,omitempty"`
	// Amount: 存提款金額；開戶時為初始餘額
	Amount float64 `json:"amount"`
	// CreatedAt: Unix 毫秒
	CreatedAt int64 `json:"created_at"`
	// TransactionID: 外部追蹤號 (UUID)，用於冪等
	TransactionID uuid.UUID       `json:"ref_id"`
	Type          TransactionType `json:"type"`
}

// Apply 對既有帳戶執行存款 / 提款 / 關戶
//
// 帳戶以 bool 回報失敗；若帳戶嵌入 Base，這裡會補上具體原因。
func (t *Transaction) Apply(a Account) error {
	switch t.Type {
	case TransactionTypeDeposit:
		if a.Deposit(t.Amount) {
			return nil
		}
		return rejectReason(a, t.Amount, true)
	case TransactionTypeWithdraw:
		if a.Withdraw(t.Amount) {
			return nil
		}
		return rejectReason(a, t.Amount, false)
	case TransactionTypeClose:
		c, ok := a.(Closer)
		if !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotClosable, a.Type())
		}
		if !c.Close() {
			return ErrInvalidState
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownTransactionType, uint8(t.Type))
	}
}

type checker interface {
	CheckDeposit(amount float64) error
	CheckWithdraw(amount float64) error
}

func rejectReason(a Account, amount float64, deposit bool) error {
	if c, ok := a.(checker); ok {
		var err error
		if deposit {
			err = c.CheckDeposit(amount)
		} else {
			err = c.CheckWithdraw(amount)
		}
		if err != nil {
			return err
		}
	}
	if !ValidAmount(amount) {
		return ErrInvalidAmount
	}
	return ErrInvalidState
}

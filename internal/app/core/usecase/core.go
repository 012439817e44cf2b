package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/pkg/logger"
)

// CoreUseCase 是核心業務邏輯層
// 負責組裝交易 (補上追蹤號與時間)，再交給 Ledger 執行
type CoreUseCase struct {
	ledger Ledger
	log    *logger.Logger
	now    func() time.Time
}

func NewCoreUseCase(ledger Ledger, log *logger.Logger) *CoreUseCase {
	return &CoreUseCase{
		ledger: ledger,
		log:    log,
		now:    time.Now,
	}
}

// OpenAccount 開戶
// 初始餘額不可為負；帳戶名稱不可重複
func (c *CoreUseCase) OpenAccount(ctx context.Context, refID uuid.UUID, accountType, name string, balance float64) (domain.Snapshot, error) {
	if name == "" {
		return domain.Snapshot{}, domain.ErrInvalidName
	}
	if balance < 0 || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return domain.Snapshot{}, domain.ErrInvalidAmount
	}
	return c.post(ctx, &domain.Transaction{
		TransactionID: refID,
		Account:       name,
		AccountType:   accountType,
		Amount:        balance,
		Type:          domain.TransactionTypeOpen,
	})
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, refID uuid.UUID, name string, amount float64) (domain.Snapshot, error) {
	return c.post(ctx, &domain.Transaction{
		TransactionID: refID,
		Account:       name,
		Amount:        amount,
		Type:          domain.TransactionTypeDeposit,
	})
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, refID uuid.UUID, name string, amount float64) (domain.Snapshot, error) {
	return c.post(ctx, &domain.Transaction{
		TransactionID: refID,
		Account:       name,
		Amount:        amount,
		Type:          domain.TransactionTypeWithdraw,
	})
}

// CloseAccount 關戶
func (c *CoreUseCase) CloseAccount(ctx context.Context, refID uuid.UUID, name string) (domain.Snapshot, error) {
	return c.post(ctx, &domain.Transaction{
		TransactionID: refID,
		Account:       name,
		Type:          domain.TransactionTypeClose,
	})
}

// GetAccount 取得帳戶
func (c *CoreUseCase) GetAccount(ctx context.Context, name string) (domain.Snapshot, error) {
	return c.ledger.GetAccount(ctx, name)
}

// ListAccounts 列出所有帳戶
func (c *CoreUseCase) ListAccounts(ctx context.Context) ([]domain.Snapshot, error) {
	return c.ledger.LoadAllAccounts(ctx)
}

func (c *CoreUseCase) post(ctx context.Context, tran *domain.Transaction) (domain.Snapshot, error) {
	if tran.TransactionID == uuid.Nil {
		tran.TransactionID = uuid.New()
	}
	tran.CreatedAt = c.now().UnixMilli()

	log := c.log.With(
		"ref_id", tran.TransactionID.String(),
		"type", tran.Type.String(),
		"account", tran.Account,
	)
	err := checkAmount(tran)
	if err == nil {
		err = c.ledger.PostTransaction(ctx, tran)
	}
	if err != nil {
		if IsRejection(err) {
			log.Warn("transaction rejected", "amount", tran.Amount, "reason", err)
		} else {
			log.Error("transaction failed", "error", err)
		}
		return domain.Snapshot{}, err
	}
	log.Debug("transaction posted", "amount", tran.Amount)

	return c.ledger.GetAccount(ctx, tran.Account)
}

// checkAmount 存提款金額必須是正的有限數，不合法的交易不送進帳本
func checkAmount(tran *domain.Transaction) error {
	switch tran.Type {
	case domain.TransactionTypeDeposit, domain.TransactionTypeWithdraw:
		if !domain.ValidAmount(tran.Amount) {
			return domain.ErrInvalidAmount
		}
	}
	return nil
}

// IsRejection 是否為業務規則拒絕 (相對於系統錯誤)
func IsRejection(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidAmount,
		domain.ErrInvalidState,
		domain.ErrInvalidName,
		domain.ErrAccountNotFound,
		domain.ErrAccountAlreadyExists,
		domain.ErrUnknownAccountType,
		domain.ErrAccountNotClosable,
		domain.ErrUnknownTransactionType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

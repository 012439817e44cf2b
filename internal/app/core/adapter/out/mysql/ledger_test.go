package mysql

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/pkg/logger"
	"github.com/JoeShih716/go-account-core/pkg/mysql"
)

func newTestLedger(t *testing.T) *MySQLLedger {
	t.Helper()
	cfg := mysql.Config{MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent"}
	client, err := mysql.NewClientWithDialector(sqlite.Open("file::memory:"), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	registry := domain.NewRegistry()
	registry.Register("Checking", domain.LabeledConstructor("Checking"))

	ledger := NewMySQLLedger(client, registry)
	require.NoError(t, ledger.AutoMigrate(context.Background()))
	return ledger
}

func post(t *testing.T, l *MySQLLedger, typ domain.TransactionType, name string, amount float64) error {
	t.Helper()
	return l.PostTransaction(context.Background(), &domain.Transaction{
		TransactionID: uuid.New(),
		Type:          typ,
		Account:       name,
		AccountType:   "Checking",
		Amount:        amount,
	})
}

func TestMySQLLedgerOverdraw(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, post(t, l, domain.TransactionTypeOpen, "Alice", 100))
	require.NoError(t, post(t, l, domain.TransactionTypeWithdraw, "Alice", 150))

	s, err := l.GetAccount(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Snapshot{Type: "Checking", Name: "Alice", Balance: -50, State: domain.StateOverdrawn}, s)
}

func TestMySQLLedgerRejections(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, post(t, l, domain.TransactionTypeOpen, "Bob", 0))
	assert.ErrorIs(t, post(t, l, domain.TransactionTypeOpen, "Bob", 0), domain.ErrAccountAlreadyExists)
	assert.ErrorIs(t, post(t, l, domain.TransactionTypeDeposit, "Bob", -5), domain.ErrInvalidAmount)
	assert.ErrorIs(t, post(t, l, domain.TransactionTypeDeposit, "Nobody", 5), domain.ErrAccountNotFound)

	require.NoError(t, post(t, l, domain.TransactionTypeClose, "Bob", 0))
	assert.ErrorIs(t, post(t, l, domain.TransactionTypeDeposit, "Bob", 5), domain.ErrInvalidState)

	s, err := l.GetAccount(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Balance)
	assert.Equal(t, domain.StateClosed, s.State)

	// 只有成功的交易會留下紀錄
	var count int64
	require.NoError(t, l.client.DB().Model(&sqlTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = l.GetAccount(ctx, "Nobody")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestMySQLLedgerIdempotent(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, post(t, l, domain.TransactionTypeOpen, "Carol", 1))

	dep := &domain.Transaction{TransactionID: uuid.New(), Type: domain.TransactionTypeDeposit, Account: "Carol", Amount: 4}
	require.NoError(t, l.PostTransaction(ctx, dep))
	assert.NotZero(t, dep.Sequence)
	require.NoError(t, l.PostTransaction(ctx, dep))

	s, err := l.GetAccount(ctx, "Carol")
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Balance)
}

func TestMySQLLedgerLoadAllAccounts(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, post(t, l, domain.TransactionTypeOpen, "Zed", 3))
	require.NoError(t, post(t, l, domain.TransactionTypeOpen, "Amy", 2))

	all, err := l.LoadAllAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Amy", all[0].Name)
	assert.Equal(t, "Zed", all[1].Name)
}

func TestMySQLLedgerUnknownType(t *testing.T) {
	l := newTestLedger(t)
	err := l.PostTransaction(context.Background(), &domain.Transaction{
		TransactionID: uuid.New(),
		Type:          domain.TransactionTypeOpen,
		Account:       "Dan",
		AccountType:   "Brokerage",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAccountType)
}

func TestMySQLLedgerDuplicateKeys(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	open := &domain.Transaction{TransactionID: uuid.New(), Type: domain.TransactionTypeOpen, Account: "Erin", AccountType: "Checking", Amount: 7}
	require.NoError(t, l.PostTransaction(ctx, open))

	// ref_id 唯一索引衝突視為已處理，不論內容
	replay := &domain.Transaction{TransactionID: open.TransactionID, Type: domain.TransactionTypeDeposit, Account: "Erin", Amount: 100}
	require.NoError(t, l.PostTransaction(ctx, replay))
	assert.Zero(t, replay.Sequence)

	// 名稱主鍵衝突回報帳戶已存在
	err := post(t, l, domain.TransactionTypeOpen, "Erin", 1)
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	s, err := l.GetAccount(ctx, "Erin")
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Balance)

	var count int64
	require.NoError(t, l.client.DB().Model(&sqlTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

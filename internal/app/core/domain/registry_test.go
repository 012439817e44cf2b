package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateless 不嵌入 Base，也沒有狀態
type stateless struct {
	name    string
	balance float64
}

func (s *stateless) Balance() float64             { return s.balance }
func (s *stateless) Name() string                 { return s.name }
func (s *stateless) Type() string                 { return "Stateless" }
func (s *stateless) Deposit(amount float64) bool  { return false }
func (s *stateless) Withdraw(amount float64) bool { return false }
func (s *stateless) String() string               { return s.name }

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("Checking", LabeledConstructor("Checking"))
	r.Register("Savings", LabeledConstructor("Savings"))
	r.Register("Stateless", func(name string, balance float64) Account {
		return &stateless{name: name, balance: balance}
	})
	return r
}

func TestRegistryNew(t *testing.T) {
	r := newTestRegistry()

	a, err := r.New("Savings", "Heidi", 7)
	require.NoError(t, err)
	assert.Equal(t, "Savings", a.Type())
	assert.Equal(t, 7.0, a.Balance())

	_, err = r.New("Brokerage", "Heidi", 0)
	assert.ErrorIs(t, err, ErrUnknownAccountType)

	assert.Equal(t, []string{"Checking", "Savings", "Stateless"}, r.Labels())
}

func TestRegistryRestore(t *testing.T) {
	r := newTestRegistry()
	orig := NewLabeled("Checking", "Ivan", 10)
	orig.Withdraw(30)

	back, err := r.Restore(TakeSnapshot(orig))
	require.NoError(t, err)
	assert.Equal(t, TakeSnapshot(orig), TakeSnapshot(back))
	assert.Equal(t, orig.String(), back.String())
}

func TestRegistryRestoreStateless(t *testing.T) {
	r := newTestRegistry()

	a, err := r.Restore(Snapshot{Type: "Stateless", Name: "Judy", State: StateOpen})
	require.NoError(t, err)
	assert.Equal(t, StateOpen, TakeSnapshot(a).State)

	_, err = r.Restore(Snapshot{Type: "Stateless", Name: "Judy", State: StateClosed})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTransactionApply(t *testing.T) {
	a := NewLabeled("Checking", "Ken", 10)

	tran := &Transaction{TransactionID: uuid.New(), Account: "Ken", Type: TransactionTypeWithdraw, Amount: 15}
	require.NoError(t, tran.Apply(a))
	assert.Equal(t, StateOverdrawn, a.State())

	tran = &Transaction{Type: TransactionTypeDeposit, Amount: -1}
	assert.ErrorIs(t, tran.Apply(a), ErrInvalidAmount)

	tran = &Transaction{Type: TransactionTypeClose}
	require.NoError(t, tran.Apply(a))
	assert.ErrorIs(t, tran.Apply(a), ErrInvalidState)

	tran = &Transaction{Type: TransactionTypeDeposit, Amount: 5}
	assert.ErrorIs(t, tran.Apply(a), ErrInvalidState)

	tran = &Transaction{Type: TransactionType(42)}
	assert.ErrorIs(t, tran.Apply(a), ErrUnknownTransactionType)
}

func TestTransactionApplyWithoutBase(t *testing.T) {
	s := &stateless{name: "Leo"}

	assert.ErrorIs(t, (&Transaction{Type: TransactionTypeDeposit, Amount: 5}).Apply(s), ErrInvalidState)
	assert.ErrorIs(t, (&Transaction{Type: TransactionTypeWithdraw, Amount: 0}).Apply(s), ErrInvalidAmount)
	assert.ErrorIs(t, (&Transaction{Type: TransactionTypeClose}).Apply(s), ErrAccountNotClosable)
}

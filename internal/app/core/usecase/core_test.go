package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JoeShih716/go-account-core/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-core/pkg/logger"
	"github.com/JoeShih716/go-account-core/pkg/wal"
)

func newCore(t *testing.T) (*usecase.CoreUseCase, *observer.ObservedLogs) {
	t.Helper()
	registry := domain.NewRegistry()
	registry.Register("Checking", domain.LabeledConstructor("Checking"))
	registry.Register("Savings", domain.LabeledConstructor("Savings"))
	ledger, err := memory.NewMutexLedger(registry, nil, nil)
	require.NoError(t, err)

	zcore, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(zcore).Sugar()}
	return usecase.NewCoreUseCase(ledger, log), logs
}

func TestCoreUseCaseFlow(t *testing.T) {
	core, _ := newCore(t)
	ctx := context.Background()

	s, err := core.OpenAccount(ctx, uuid.Nil, "Savings", "Alice", 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Snapshot{Type: "Savings", Name: "Alice", Balance: 100, State: domain.StateOpen}, s)

	s, err = core.Deposit(ctx, uuid.New(), "Alice", 25)
	require.NoError(t, err)
	assert.Equal(t, 125.0, s.Balance)

	s, err = core.Withdraw(ctx, uuid.New(), "Alice", 200)
	require.NoError(t, err)
	assert.Equal(t, -75.0, s.Balance)
	assert.Equal(t, domain.StateOverdrawn, s.State)

	s, err = core.CloseAccount(ctx, uuid.New(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, s.State)

	all, err := core.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Snapshot{s}, all)
}

func TestCoreUseCaseOpenValidation(t *testing.T) {
	core, _ := newCore(t)
	ctx := context.Background()

	_, err := core.OpenAccount(ctx, uuid.Nil, "Checking", "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	for _, balance := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err = core.OpenAccount(ctx, uuid.Nil, "Checking", "Bob", balance)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "balance %v", balance)
	}

	_, err = core.GetAccount(ctx, "Bob")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCoreUseCaseAmountValidation(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("Checking", domain.LabeledConstructor("Checking"))
	w, err := wal.NewWAL(filepath.Join(t.TempDir(), "wal.log"))
	require.NoError(t, err)
	defer w.Close()
	ledger, err := memory.NewMutexLedger(registry, nil, w)
	require.NoError(t, err)
	core := usecase.NewCoreUseCase(ledger, logger.NewNop())
	ctx := context.Background()

	_, err = core.OpenAccount(ctx, uuid.Nil, "Checking", "Erin", 10)
	require.NoError(t, err)

	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = core.Deposit(ctx, uuid.Nil, "Erin", amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "deposit %v", amount)
		assert.True(t, usecase.IsRejection(err))
		_, err = core.Withdraw(ctx, uuid.Nil, "Erin", amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "withdraw %v", amount)
	}

	// 結果溢位成 Inf 也算金額錯誤
	_, err = core.Deposit(ctx, uuid.Nil, "Erin", math.MaxFloat64)
	require.NoError(t, err)
	_, err = core.Deposit(ctx, uuid.Nil, "Erin", math.MaxFloat64)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.NotErrorIs(t, err, domain.ErrWALWriteFailed)

	s, err := core.GetAccount(ctx, "Erin")
	require.NoError(t, err)
	assert.False(t, math.IsInf(s.Balance, 0))
	assert.Equal(t, domain.StateOpen, s.State)
}

func TestCoreUseCaseLogsRejections(t *testing.T) {
	core, logs := newCore(t)
	ctx := context.Background()

	_, err := core.OpenAccount(ctx, uuid.Nil, "Checking", "Carol", 0)
	require.NoError(t, err)
	_, err = core.Deposit(ctx, uuid.Nil, "Carol", -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	warns := logs.FilterMessage("transaction rejected").All()
	require.Len(t, warns, 1)
	fields := warns[0].ContextMap()
	assert.Equal(t, "Carol", fields["account"])
	assert.Equal(t, "deposit", fields["type"])
	assert.Equal(t, -5.0, fields["amount"])
}

func TestIsRejection(t *testing.T) {
	assert.True(t, usecase.IsRejection(domain.ErrInvalidState))
	assert.True(t, usecase.IsRejection(fmt.Errorf("%w: \"X\"", domain.ErrUnknownAccountType)))
	assert.False(t, usecase.IsRejection(domain.ErrWALWriteFailed))
	assert.False(t, usecase.IsRejection(errors.New("disk on fire")))
	assert.False(t, usecase.IsRejection(context.Canceled))
}

package domain

import (
	"fmt"
	"math"
)

// Account 是所有帳戶類型共用的介面
//
// Deposit / Withdraw 只以 bool 回報結果：false 代表金額或狀態不合法，且餘額未被修改。
// 狀態的讀寫 (State / SetState) 刻意不放在介面上，只有嵌入 Base 的帳戶類型能使用。
type Account interface {
	// Balance 目前餘額，可能為負
	Balance() float64
	// Name 建立時決定的帳戶名稱，之後不會改變
	Name() string
	// Type 帳戶類型標籤 (如 "Checking")
	Type() string
	// Deposit 存款
	Deposit(amount float64) bool
	// Withdraw 提款，餘額低於 0 時轉為 OVERDRAWN
	Withdraw(amount float64) bool

	fmt.Stringer
}

// Base 保存所有帳戶類型共用的欄位，供具體類型嵌入
type Base struct {
	balance float64
	name    string
	state   State
}

// NewBase 建立餘額為 0 的 OPEN 帳戶
func NewBase(name string) Base {
	return Base{name: name, state: StateOpen}
}

// NewBaseWithBalance 建立指定初始餘額的 OPEN 帳戶
func NewBaseWithBalance(name string, balance float64) Base {
	b := NewBase(name)
	b.balance = balance
	return b
}

func (b *Base) Balance() float64 {
	return b.balance
}

func (b *Base) Name() string {
	return b.name
}

// State 只給嵌入者使用
func (b *Base) State() State {
	return b.state
}

// SetState 只給嵌入者使用
func (b *Base) SetState(s State) {
	b.state = s
}

// CheckDeposit 回傳存款被拒絕的原因，可存款時回傳 nil
// 金額或存款後的餘額不是有限數時視為金額錯誤
func (b *Base) CheckDeposit(amount float64) error {
	if !ValidAmount(amount) || math.IsInf(b.balance+amount, 0) {
		return ErrInvalidAmount
	}
	if b.state == StateClosed {
		return ErrInvalidState
	}
	return nil
}

// CheckWithdraw 回傳提款被拒絕的原因，可提款時回傳 nil
func (b *Base) CheckWithdraw(amount float64) error {
	if !ValidAmount(amount) || math.IsInf(b.balance-amount, 0) {
		return ErrInvalidAmount
	}
	if b.state == StateClosed {
		return ErrInvalidState
	}
	return nil
}

// ApplyDeposit 依共用規則存款
func (b *Base) ApplyDeposit(amount float64) bool {
	if b.CheckDeposit(amount) != nil {
		return false
	}
	b.balance += amount
	return true
}

// ApplyWithdraw 依共用規則提款；結果為負時轉為 OVERDRAWN
func (b *Base) ApplyWithdraw(amount float64) bool {
	if b.CheckWithdraw(amount) != nil {
		return false
	}
	b.balance -= amount
	if b.balance < 0 {
		b.state = StateOverdrawn
	}
	return true
}

// String 例: "Account Alice has $100.00 and is OPEN\n"
func (b *Base) String() string {
	return fmt.Sprintf("Account %s has $%.2f and is %s\n", b.name, b.balance, b.state)
}

// ValidAmount 金額必須是大於 0 的有限數 (NaN / ±Inf 都不合法)
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}

package domain

// Labeled 是通用帳戶類型：行為完全依照 Base 的共用規則，只多了類型標籤與關閉帳戶。
type Labeled struct {
	Base
	label string
}

// NewLabeled 建立一個以 label 為類型的帳戶
func NewLabeled(label, name string, balance float64) *Labeled {
	return &Labeled{
		Base:  NewBaseWithBalance(name, balance),
		label: label,
	}
}

// LabeledConstructor 回傳可註冊到 Registry 的建構函式
func LabeledConstructor(label string) Constructor {
	return func(name string, balance float64) Account {
		return NewLabeled(label, name, balance)
	}
}

func (a *Labeled) Type() string {
	return a.label
}

func (a *Labeled) Deposit(amount float64) bool {
	return a.ApplyDeposit(amount)
}

func (a *Labeled) Withdraw(amount float64) bool {
	return a.ApplyWithdraw(amount)
}

// Close 將帳戶轉為 CLOSED；已關閉時回傳 false
func (a *Labeled) Close() bool {
	if a.State() == StateClosed {
		return false
	}
	a.SetState(StateClosed)
	return true
}

var (
	_ Account  = (*Labeled)(nil)
	_ Closer   = (*Labeled)(nil)
	_ Stateful = (*Labeled)(nil)
)

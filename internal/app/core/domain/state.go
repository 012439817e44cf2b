package domain

import "fmt"

// State 帳戶生命週期狀態
type State uint8

const (
	// StateOpen 正常可用
	StateOpen State = iota
	// StateClosed 停用，不可存款
	StateClosed
	// StateOverdrawn 餘額為負
	StateOverdrawn
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateClosed:
		return "CLOSED"
	case StateOverdrawn:
		return "OVERDRAWN"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ParseState 將文字轉回 State，未知字串回傳 ErrUnknownState
func ParseState(text string) (State, error) {
	switch text {
	case "OPEN":
		return StateOpen, nil
	case "CLOSED":
		return StateClosed, nil
	case "OVERDRAWN":
		return StateOverdrawn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownState, text)
}

// MarshalText 讓 JSON / YAML 以名稱而非數字儲存狀態
func (s State) MarshalText() ([]byte, error) {
	if s > StateOverdrawn {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

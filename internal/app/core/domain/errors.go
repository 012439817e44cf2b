package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須大於 0
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidState 帳戶狀態不允許此操作 (如 CLOSED)
	ErrInvalidState = errors.New("operation not allowed in current account state")

	// ErrInvalidName 帳戶名稱不可為空
	ErrInvalidName = errors.New("account name must not be empty")

	// ErrUnknownState 無法辨識的狀態值
	ErrUnknownState = errors.New("unknown account state")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrUnknownAccountType 未註冊的帳戶類型
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrAccountNotClosable 帳戶類型不支援關閉
	ErrAccountNotClosable = errors.New("account type cannot be closed")

	// ErrUnknownTransactionType 無法辨識的交易類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrWALWriteFailed 寫入 WAL 失敗
	ErrWALWriteFailed = errors.New("wal write failed")
)

package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-core/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	Name      string `gorm:"primaryKey;size:191"`
	Type      string `gorm:"size:64;not null"`
	Balance   float64
	State     string `gorm:"size:16;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func (a *sqlAccount) snapshot() (domain.Snapshot, error) {
	state, err := domain.ParseState(a.State)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Type: a.Type, Name: a.Name, Balance: a.Balance, State: state}, nil
}

func fromSnapshot(s domain.Snapshot) sqlAccount {
	return sqlAccount{Name: s.Name, Type: s.Type, Balance: s.Balance, State: s.State.String()}
}

// sqlTransaction 對應資料庫的 account_transactions 表
type sqlTransaction struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RefID     []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transaction.TransactionID
	Account   string `gorm:"size:191;index"`
	Amount    float64
	Type      uint8
	CreatedAt int64 `gorm:"autoCreateTime:milli"`
}

func (*sqlTransaction) TableName() string {
	return "account_transactions"
}

// MySQLLedger 每筆交易都在資料庫交易內完成 (Level 0)
type MySQLLedger struct {
	client   *mysql.Client
	registry *domain.Registry
}

func NewMySQLLedger(client *mysql.Client, registry *domain.Registry) *MySQLLedger {
	return &MySQLLedger{
		client:   client,
		registry: registry,
	}
}

// AutoMigrate 建立或更新資料表
func (ledger *MySQLLedger) AutoMigrate(ctx context.Context) error {
	return ledger.client.DB().WithContext(ctx).AutoMigrate(&sqlAccount{}, &sqlTransaction{})
}

// errDuplicateRef 同一個 ref_id 已由其他請求寫入
var errDuplicateRef = errors.New("duplicate ref_id")

// PostTransaction 在資料庫交易內執行
//
// 先寫入交易紀錄，ref_id 唯一索引衝突代表已處理過 (冪等)；
// 業務錯誤會讓整個資料庫交易回滾，紀錄不會留下。
func (ledger *MySQLLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	err := ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := sqlTransaction{
			RefID:   tran.TransactionID[:],
			Account: tran.Account,
			Amount:  tran.Amount,
			Type:    uint8(tran.Type),
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateRef
			}
			return fmt.Errorf("create transaction record: %w", err)
		}

		var err error
		if tran.Type == domain.TransactionTypeOpen {
			err = ledger.open(tx, tran)
		} else {
			err = ledger.update(tx, tran)
		}
		if err != nil {
			return err
		}
		tran.Sequence = uint64(record.ID)
		return nil
	})
	if errors.Is(err, errDuplicateRef) {
		return nil
	}
	return err
}

// open 開戶；名稱主鍵衝突即帳戶已存在 (包含併發開同名帳戶)
func (ledger *MySQLLedger) open(tx *gorm.DB, tran *domain.Transaction) error {
	a, err := ledger.registry.New(tran.AccountType, tran.Account, tran.Amount)
	if err != nil {
		return err
	}
	row := fromSnapshot(domain.TakeSnapshot(a))
	if err := tx.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAccountAlreadyExists
		}
		return err
	}
	return nil
}

// update 以悲觀鎖讀出帳戶，還原成具體類型後套用交易
func (ledger *MySQLLedger) update(tx *gorm.DB, tran *domain.Transaction) error {
	var row sqlAccount
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", tran.Account).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	s, err := row.snapshot()
	if err != nil {
		return err
	}
	a, err := ledger.registry.Restore(s)
	if err != nil {
		return err
	}
	if err := tran.Apply(a); err != nil {
		return err
	}
	row = fromSnapshot(domain.TakeSnapshot(a))
	return tx.Save(&row).Error
}

// GetAccount 取得帳戶
func (ledger *MySQLLedger) GetAccount(ctx context.Context, name string) (domain.Snapshot, error) {
	var row sqlAccount
	err := ledger.client.DB().WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Snapshot{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	return row.snapshot()
}

// LoadAllAccounts 載入所有帳戶 (依名稱排序)
func (ledger *MySQLLedger) LoadAllAccounts(ctx context.Context) ([]domain.Snapshot, error) {
	var rows []sqlAccount
	if err := ledger.client.DB().WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Snapshot, 0, len(rows))
	for i := range rows {
		s, err := rows[i].snapshot()
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", rows[i].Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

var _ usecase.Ledger = (*MySQLLedger)(nil)

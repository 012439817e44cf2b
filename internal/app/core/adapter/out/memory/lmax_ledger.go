package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-core/pkg/wal"
)

type requestKind uint8

const (
	requestPost requestKind = iota
	requestGet
	requestList
)

// request 輸送帶上的請求，呼叫端等待 Result
type request struct {
	kind requestKind
	tran *domain.Transaction
	name string

	snapshot  domain.Snapshot
	snapshots []domain.Snapshot
	Result    chan error
}

// LMAXLedger 所有讀寫都交給單一 goroutine 依序處理，book 不需要鎖
type LMAXLedger struct {
	book *book
	// 輸送帶 負責接收請求
	requests chan *request
	// Pool 減少 GC 壓力
	requestPool sync.Pool
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例
// 建立後需呼叫 Start 才會開始處理請求
//
// 參數:
//
//	registry: 帳戶類型註冊表
//	snapshots: 初始帳戶，可為 nil
//	wal: Write-Ahead Log 實例，可為 nil
//	queueSize: 輸送帶容量
func NewLMAXLedger(registry *domain.Registry, snapshots []domain.Snapshot, wal *wal.WAL, queueSize int) (*LMAXLedger, error) {
	// 在啟動前先恢復資料
	b, err := newBook(registry, snapshots, wal)
	if err != nil {
		return nil, err
	}
	return &LMAXLedger{
		book:     b,
		requests: make(chan *request, queueSize),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &request{Result: make(chan error, 1)}
			},
		},
	}, nil
}

// Start 啟動核心引擎 (非同步)；ctx 結束時會先處理完輸送帶上剩下的請求
func (l *LMAXLedger) Start(ctx context.Context) {
	go l.run(ctx)
}

func (l *LMAXLedger) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.drain()
			return
		case req := <-l.requests:
			l.process(req)
		}
	}
}

func (l *LMAXLedger) drain() {
	for {
		select {
		case req := <-l.requests:
			l.process(req)
		default:
			return
		}
	}
}

func (l *LMAXLedger) process(req *request) {
	switch req.kind {
	case requestPost:
		req.Result <- l.book.post(req.tran)
	case requestGet:
		s, err := l.book.get(req.name)
		req.snapshot = s
		req.Result <- err
	case requestList:
		req.snapshots = l.book.all()
		req.Result <- nil
	}
}

// submit 放入輸送帶並等待結果
// ctx 在等待期間結束時直接返回，此時 req 仍可能被處理，所以不放回 Pool
func (l *LMAXLedger) submit(ctx context.Context, req *request) error {
	select {
	case l.requests <- req:
	case <-ctx.Done():
		l.release(req)
		return ctx.Err()
	}
	select {
	case err := <-req.Result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LMAXLedger) acquire(kind requestKind) *request {
	req := l.requestPool.Get().(*request)
	req.kind = kind
	return req
}

func (l *LMAXLedger) release(req *request) {
	req.tran = nil
	req.name = ""
	req.snapshot = domain.Snapshot{}
	req.snapshots = nil
	l.requestPool.Put(req)
}

// PostTransaction 接收交易請求
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> WAL -> Map Update -> Result Channel -> PostTransaction(收到結果)
func (l *LMAXLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	req := l.acquire(requestPost)
	req.tran = tran
	if err := l.submit(ctx, req); err != nil {
		if ctx.Err() == nil {
			l.release(req)
		}
		return err
	}
	l.release(req)
	return nil
}

// GetAccount 取得指定帳戶的當前狀態
func (l *LMAXLedger) GetAccount(ctx context.Context, name string) (domain.Snapshot, error) {
	req := l.acquire(requestGet)
	req.name = name
	if err := l.submit(ctx, req); err != nil {
		if ctx.Err() == nil {
			l.release(req)
		}
		return domain.Snapshot{}, err
	}
	s := req.snapshot
	l.release(req)
	return s, nil
}

// LoadAllAccounts 回傳所有帳戶的快照
func (l *LMAXLedger) LoadAllAccounts(ctx context.Context) ([]domain.Snapshot, error) {
	req := l.acquire(requestList)
	if err := l.submit(ctx, req); err != nil {
		if ctx.Err() == nil {
			l.release(req)
		}
		return nil, err
	}
	out := req.snapshots
	l.release(req)
	return out, nil
}

var _ usecase.Ledger = (*LMAXLedger)(nil)

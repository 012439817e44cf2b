package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
)

// Client AccountService 的客戶端
// 業務拒絕以 Result.Success=false 表示，error 只代表 RPC 失敗
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) OpenAccount(ctx context.Context, req Request, opts ...grpc.CallOption) (Result, error) {
	return c.call(ctx, methodOpenAccount, req, opts...)
}

func (c *Client) Deposit(ctx context.Context, req Request, opts ...grpc.CallOption) (Result, error) {
	return c.call(ctx, methodDeposit, req, opts...)
}

func (c *Client) Withdraw(ctx context.Context, req Request, opts ...grpc.CallOption) (Result, error) {
	return c.call(ctx, methodWithdraw, req, opts...)
}

func (c *Client) CloseAccount(ctx context.Context, req Request, opts ...grpc.CallOption) (Result, error) {
	return c.call(ctx, methodCloseAccount, req, opts...)
}

// GetAccount 帳戶不存在時回傳 codes.NotFound
func (c *Client) GetAccount(ctx context.Context, name string, opts ...grpc.CallOption) (domain.Snapshot, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(methodGetAccount), wrapperspb.String(name), out, opts...); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshotFromStruct(out)
}

func (c *Client) ListAccounts(ctx context.Context, opts ...grpc.CallOption) ([]domain.Snapshot, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(methodListAccounts), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return accountsFromStruct(out)
}

func (c *Client) call(ctx context.Context, method string, req Request, opts ...grpc.CallOption) (Result, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req.toStruct(), out, opts...); err != nil {
		return Result{}, err
	}
	return resultFromStruct(out)
}

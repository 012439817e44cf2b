package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName gRPC 服務全名
const ServiceName = "account.v1.AccountService"

const (
	methodOpenAccount  = "OpenAccount"
	methodDeposit      = "Deposit"
	methodWithdraw     = "Withdraw"
	methodCloseAccount = "CloseAccount"
	methodGetAccount   = "GetAccount"
	methodListAccounts = "ListAccounts"
)

// AccountServiceServer 帳戶服務
//
// 請求與回應使用 protobuf 內建型別 (Struct / StringValue)，欄位定義見 message.go。
type AccountServiceServer interface {
	OpenAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListAccounts(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc 供 grpc.Server.RegisterService 使用
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodOpenAccount, Handler: structHandler(methodOpenAccount, AccountServiceServer.OpenAccount)},
		{MethodName: methodDeposit, Handler: structHandler(methodDeposit, AccountServiceServer.Deposit)},
		{MethodName: methodWithdraw, Handler: structHandler(methodWithdraw, AccountServiceServer.Withdraw)},
		{MethodName: methodCloseAccount, Handler: structHandler(methodCloseAccount, AccountServiceServer.CloseAccount)},
		{MethodName: methodGetAccount, Handler: getAccountHandler},
		{MethodName: methodListAccounts, Handler: listAccountsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "account/v1/account.proto",
}

// RegisterAccountServiceServer 註冊服務
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type structCall func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func structHandler(method string, call structCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func getAccountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountServiceServer).GetAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod(methodGetAccount),
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccountServiceServer).GetAccount(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listAccountsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AccountServiceServer).ListAccounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod(methodListAccounts),
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AccountServiceServer).ListAccounts(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

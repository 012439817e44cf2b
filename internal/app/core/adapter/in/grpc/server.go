package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
	"github.com/JoeShih716/go-account-core/internal/app/core/usecase"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

type operation func(ctx context.Context, req Request) (domain.Snapshot, error)

// handle 解析請求、執行操作並組裝回應
// 業務錯誤回傳 success=false (Soft Failure)，系統錯誤才回傳 gRPC status
func (s *GrpcServer) handle(ctx context.Context, in *structpb.Struct, op operation) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return failureStruct(err.Error()), nil
	}
	snap, err := op(ctx, req)
	if err != nil {
		if usecase.IsRejection(err) {
			return failureStruct(err.Error()), nil
		}
		return nil, toStatus(err)
	}
	return successStruct(snap), nil
}

func (s *GrpcServer) OpenAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, in, func(ctx context.Context, req Request) (domain.Snapshot, error) {
		return s.core.OpenAccount(ctx, req.RefID, req.Type, req.Name, req.Amount)
	})
}

func (s *GrpcServer) Deposit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, in, func(ctx context.Context, req Request) (domain.Snapshot, error) {
		return s.core.Deposit(ctx, req.RefID, req.Name, req.Amount)
	})
}

func (s *GrpcServer) Withdraw(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, in, func(ctx context.Context, req Request) (domain.Snapshot, error) {
		return s.core.Withdraw(ctx, req.RefID, req.Name, req.Amount)
	})
}

func (s *GrpcServer) CloseAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.handle(ctx, in, func(ctx context.Context, req Request) (domain.Snapshot, error) {
		return s.core.CloseAccount(ctx, req.RefID, req.Name)
	})
}

func (s *GrpcServer) GetAccount(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, domain.ErrInvalidName.Error())
	}
	snap, err := s.core.GetAccount(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return snapshotStruct(snap), nil
}

// ListAccounts 回傳所有帳戶 (依名稱排序)
func (s *GrpcServer) ListAccounts(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list, err := s.core.ListAccounts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return accountsStruct(list), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ AccountServiceServer = (*GrpcServer)(nil)

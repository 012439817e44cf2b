package grpc

import (
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-core/internal/app/core/domain"
)

// 請求欄位
//
//	ref_id  string  交易追蹤號 (UUID)，空字串時由伺服器產生
//	name    string  帳戶名稱
//	type    string  帳戶類型，只有 OpenAccount 使用
//	amount  number  金額 / 初始餘額
//
// 回應欄位
//
//	success  bool    false 代表業務規則拒絕 (Soft Failure)
//	message  string  拒絕原因
//	account  struct  {type, name, balance, state}，成功時才有
//
// ListAccounts 回應
//
//	accounts  list  依名稱排序的 account struct
const (
	fieldRefID    = "ref_id"
	fieldName     = "name"
	fieldType     = "type"
	fieldAmount   = "amount"
	fieldSuccess  = "success"
	fieldMessage  = "message"
	fieldAccount  = "account"
	fieldBalance  = "balance"
	fieldState    = "state"
	fieldAccounts = "accounts"
)

// Request 客戶端送出的帳戶操作
type Request struct {
	RefID  uuid.UUID
	Name   string
	Type   string
	Amount float64
}

func (r Request) toStruct() *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldName:   structpb.NewStringValue(r.Name),
		fieldAmount: structpb.NewNumberValue(r.Amount),
	}
	if r.RefID != uuid.Nil {
		fields[fieldRefID] = structpb.NewStringValue(r.RefID.String())
	}
	if r.Type != "" {
		fields[fieldType] = structpb.NewStringValue(r.Type)
	}
	return &structpb.Struct{Fields: fields}
}

func requestFromStruct(in *structpb.Struct) (Request, error) {
	fields := in.GetFields()
	req := Request{
		Name:   fields[fieldName].GetStringValue(),
		Type:   fields[fieldType].GetStringValue(),
		Amount: fields[fieldAmount].GetNumberValue(),
	}
	if raw := fields[fieldRefID].GetStringValue(); raw != "" {
		u, err := uuid.Parse(raw)
		if err != nil {
			return req, fmt.Errorf("invalid ref_id: %w", err)
		}
		req.RefID = u
	}
	return req, nil
}

// Result 伺服器回應
type Result struct {
	Success bool
	Message string
	Account domain.Snapshot
}

func successStruct(s domain.Snapshot) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSuccess: structpb.NewBoolValue(true),
		fieldAccount: structpb.NewStructValue(snapshotStruct(s)),
	}}
}

func failureStruct(message string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldSuccess: structpb.NewBoolValue(false),
		fieldMessage: structpb.NewStringValue(message),
	}}
}

func snapshotStruct(s domain.Snapshot) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldType:    structpb.NewStringValue(s.Type),
		fieldName:    structpb.NewStringValue(s.Name),
		fieldBalance: structpb.NewNumberValue(s.Balance),
		fieldState:   structpb.NewStringValue(s.State.String()),
	}}
}

func resultFromStruct(out *structpb.Struct) (Result, error) {
	fields := out.GetFields()
	res := Result{
		Success: fields[fieldSuccess].GetBoolValue(),
		Message: fields[fieldMessage].GetStringValue(),
	}
	if acc := fields[fieldAccount].GetStructValue(); acc != nil {
		s, err := snapshotFromStruct(acc)
		if err != nil {
			return res, err
		}
		res.Account = s
	}
	return res, nil
}

func snapshotFromStruct(in *structpb.Struct) (domain.Snapshot, error) {
	fields := in.GetFields()
	state, err := domain.ParseState(fields[fieldState].GetStringValue())
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		Type:    fields[fieldType].GetStringValue(),
		Name:    fields[fieldName].GetStringValue(),
		Balance: fields[fieldBalance].GetNumberValue(),
		State:   state,
	}, nil
}

func accountsStruct(list []domain.Snapshot) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(list))
	for _, s := range list {
		values = append(values, structpb.NewStructValue(snapshotStruct(s)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldAccounts: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

func accountsFromStruct(in *structpb.Struct) ([]domain.Snapshot, error) {
	values := in.GetFields()[fieldAccounts].GetListValue().GetValues()
	out := make([]domain.Snapshot, 0, len(values))
	for _, v := range values {
		s, err := snapshotFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

package grpc

// proto.go hand-writes the service descriptor of riskengine.v1.RiskService in
// the shape protoc-gen-go-grpc emits. Messages travel with the json codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Full method names.
const (
	ScoreTransactionMethod    = "/riskengine.v1.RiskService/ScoreTransaction"
	ScoreFinancingEventMethod = "/riskengine.v1.RiskService/ScoreFinancingEvent"
	ListAlertsMethod          = "/riskengine.v1.RiskService/ListAlerts"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error)
	ScoreFinancingEvent(context.Context, *ScoreFinancingEventRequest) (*ScoreFinancingEventResponse, error)
	ListAlerts(context.Context, *ListAlertsRequest) (*ListAlertsResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreTransaction not implemented")
}
func (UnimplementedRiskServiceServer) ScoreFinancingEvent(context.Context, *ScoreFinancingEventRequest) (*ScoreFinancingEventResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreFinancingEvent not implemented")
}
func (UnimplementedRiskServiceServer) ListAlerts(context.Context, *ListAlertsRequest) (*ListAlertsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListAlerts not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers srv with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "riskengine.v1.RiskService",
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreTransaction", Handler: _RiskService_ScoreTransaction_Handler},
		{MethodName: "ScoreFinancingEvent", Handler: _RiskService_ScoreFinancingEvent_Handler},
		{MethodName: "ListAlerts", Handler: _RiskService_ListAlerts_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "riskengine/v1/risk.proto",
}

func _RiskService_ScoreTransaction_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ScoreTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ScoreTransaction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoreTransactionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskServiceServer).ScoreTransaction(ctx, req.(*ScoreTransactionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_ScoreFinancingEvent_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ScoreFinancingEventRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ScoreFinancingEvent(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoreFinancingEventMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskServiceServer).ScoreFinancingEvent(ctx, req.(*ScoreFinancingEventRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_ListAlerts_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ListAlertsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).ListAlerts(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ListAlertsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RiskServiceServer).ListAlerts(ctx, req.(*ListAlertsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// TeamServiceName は gRPC のサービス名です。
const TeamServiceName = "team.v1.TeamService"

// TeamServiceServer は TeamService の各 RPC を実装するサーバーです。
// リクエストとレスポンスはいずれも google.protobuf.Struct です。
type TeamServiceServer interface {
	ListAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListLeaveRequests(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListWorkReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPerformance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTeamMemberProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListTeamMembers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type teamMethod func(srv TeamServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// TeamServiceDesc は TeamService の登録情報です。
var TeamServiceDesc = grpc.ServiceDesc{
	ServiceName: TeamServiceName,
	HandlerType: (*TeamServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		teamMethodDesc("ListAttendance", TeamServiceServer.ListAttendance),
		teamMethodDesc("ListLeaveRequests", TeamServiceServer.ListLeaveRequests),
		teamMethodDesc("ListWorkReports", TeamServiceServer.ListWorkReports),
		teamMethodDesc("ListPerformance", TeamServiceServer.ListPerformance),
		teamMethodDesc("ListSalaries", TeamServiceServer.ListSalaries),
		teamMethodDesc("GetTeamMemberProfile", TeamServiceServer.GetTeamMemberProfile),
		teamMethodDesc("ListTeamMembers", TeamServiceServer.ListTeamMembers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "team/v1/team.proto",
}

// RegisterTeamServiceServer は TeamService をサーバーへ登録します。
func RegisterTeamServiceServer(s grpc.ServiceRegistrar, srv TeamServiceServer) {
	s.RegisterService(&TeamServiceDesc, srv)
}

// FullMethodName は RPC のフルメソッド名を返します。
func FullMethodName(method string) string {
	return "/" + TeamServiceName + "/" + method
}

func teamMethodDesc(name string, call teamMethod) grpc.MethodDesc {
	fullMethod := FullMethodName(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TeamServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TeamServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

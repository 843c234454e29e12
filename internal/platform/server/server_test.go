package server

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ogurasousui/codex-grpc-team-scope/internal/adapters/grpc/handler"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeTeamServer struct {
	mu         sync.Mutex
	requestIDs []string
}

func (f *fakeTeamServer) reply(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	f.requestIDs = append(f.requestIDs, RequestIDFromContext(ctx))
	f.mu.Unlock()

	if req.GetFields()["fail"].GetBoolValue() {
		return nil, status.Error(codes.PermissionDenied, "denied")
	}
	return structpb.NewStruct(map[string]any{"items": []any{map[string]any{"companyName": "Acme"}}})
}

func (f *fakeTeamServer) ListAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) ListLeaveRequests(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) ListWorkReports(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) ListPerformance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) ListSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) GetTeamMemberProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

func (f *fakeTeamServer) ListTeamMembers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return f.reply(ctx, req)
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startServer(t *testing.T, team handler.TeamServiceServer, out *safeBuffer) *grpc.ClientConn {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{})

	lis := bufconn.Listen(1 << 20)
	srv := New("bufnet", team, logrus.NewEntry(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return conn
}

func TestServer_TeamServiceRoundTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeTeamServer{}
	var logs safeBuffer
	conn := startServer(t, fake, &logs)

	ctx := metadata.AppendToOutgoingContext(context.Background(),
		handler.MetadataUserID, "M",
		MetadataRequestID, "req-123",
	)
	req, err := structpb.NewStruct(map[string]any{"month": 1})
	require.NoError(t, err)

	var header metadata.MD
	resp := new(structpb.Struct)
	err = conn.Invoke(ctx, handler.FullMethodName("ListAttendance"), req, resp, grpc.Header(&header))
	require.NoError(t, err)

	items := resp.GetFields()["items"].GetListValue().GetValues()
	require.Len(t, items, 1)
	require.Equal(t, []string{"req-123"}, header.Get(MetadataRequestID))
	fake.mu.Lock()
	require.Equal(t, []string{"req-123"}, fake.requestIDs)
	fake.mu.Unlock()

	out := logs.String()
	require.Contains(t, out, `"method":"/team.v1.TeamService/ListAttendance"`)
	require.Contains(t, out, `"caller_id":"M"`)
	require.Contains(t, out, `"request_id":"req-123"`)
}

func TestServer_GeneratesRequestIDAndPropagatesStatus(t *testing.T) {
	t.Parallel()

	fake := &fakeTeamServer{}
	var logs safeBuffer
	conn := startServer(t, fake, &logs)

	req, err := structpb.NewStruct(map[string]any{"fail": true})
	require.NoError(t, err)

	var header metadata.MD
	err = conn.Invoke(context.Background(), handler.FullMethodName("GetTeamMemberProfile"), req, new(structpb.Struct), grpc.Header(&header))
	require.Equal(t, codes.PermissionDenied, status.Code(err))

	ids := header.Get(MetadataRequestID)
	require.Len(t, ids, 1)
	require.Len(t, ids[0], 36)
	require.True(t, strings.Contains(logs.String(), "rpc rejected"))
}

func TestServer_HealthCheck(t *testing.T) {
	t.Parallel()

	var logs safeBuffer
	conn := startServer(t, &fakeTeamServer{}, &logs)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: handler.TeamServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestServer_RunListenError(t *testing.T) {
	t.Parallel()

	srv := New("invalid-address", &fakeTeamServer{}, nil)
	require.Error(t, srv.Run(context.Background()))
}

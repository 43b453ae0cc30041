package grpc

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-mem-point/proto"
)

func startServer(t *testing.T, logger *zap.Logger) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	svc := usecase.NewPointService(memory.NewBalanceStore(nil), memory.NewHistoryStore())
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	pb.RegisterPointServiceServer(s, NewGrpcServer(svc))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGrpcServer_ChargeUseHistories(t *testing.T) {
	client := pb.NewPointServiceClient(startServer(t, zap.NewNop()))
	ctx := context.Background()

	charged, err := client.Charge(ctx, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), charged.Point)
	assert.NotZero(t, charged.UpdateMillis)

	used, err := client.Use(ctx, 1, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(700), used.Point)

	point, err := client.GetPoint(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, pb.UserPoint{UserID: 1, Point: 700, UpdateMillis: used.UpdateMillis}, point)

	histories, err := client.GetHistories(ctx, 1)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.Equal(t, "CHARGE", histories[0].Type)
	assert.Equal(t, int64(1000), histories[0].Amount)
	assert.Equal(t, "USE", histories[1].Type)
	assert.Equal(t, used.UpdateMillis, histories[1].UpdateMillis)
}

func TestGrpcServer_FreshUser(t *testing.T) {
	client := pb.NewPointServiceClient(startServer(t, zap.NewNop()))

	point, err := client.GetPoint(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, pb.UserPoint{UserID: 5}, point)

	histories, err := client.GetHistories(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, histories)
}

func TestGrpcServer_ErrorCodes(t *testing.T) {
	client := pb.NewPointServiceClient(startServer(t, zap.NewNop()))
	ctx := context.Background()

	_, err := client.GetPoint(ctx, 0)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Charge(ctx, 1, 0)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Use(ctx, 1, 10)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = client.Charge(ctx, 1, 100_001)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGrpcServer_MalformedRequest(t *testing.T) {
	conn := startServer(t, zap.NewNop())

	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), pb.PointService_Charge_FullMethodName, pb.NewUserRequest(1), out)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "amount")
}

func TestGrpcServer_ConcurrentCharge(t *testing.T) {
	client := pb.NewPointServiceClient(startServer(t, zap.NewNop()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Charge(ctx, 7, 20)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	point, err := client.GetPoint(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), point.Point)
}

func TestLoggingInterceptor_RequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	client := pb.NewPointServiceClient(startServer(t, zap.New(core)))

	// 帶入 request id 時沿用
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-123")
	var header metadata.MD
	_, err := client.GetPoint(ctx, 1, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-123"}, header.Get(RequestIDHeader))

	// 未帶入時產生 uuid
	header = nil
	_, err = client.GetPoint(context.Background(), 2, grpc.Header(&header))
	require.NoError(t, err)
	generated := header.Get(RequestIDHeader)
	require.Len(t, generated, 1)
	_, parseErr := uuid.Parse(generated[0])
	assert.NoError(t, parseErr)

	_, err = client.Use(context.Background(), 1, 1)
	require.Error(t, err)

	entries := logs.FilterMessage("grpc request").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, pb.PointService_GetPoint_FullMethodName, entries[0].ContextMap()["method"])
	assert.Equal(t, generated[0], entries[1].ContextMap()["request_id"])
	assert.Equal(t, "FailedPrecondition", entries[2].ContextMap()["code"])
}

package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-mem-point/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-point/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-mem-point/proto"
)

type GrpcServer struct {
	pb.UnimplementedPointServiceServer
	points *usecase.PointService
}

func NewGrpcServer(points *usecase.PointService) *GrpcServer {
	return &GrpcServer{
		points: points,
	}
}

func (s *GrpcServer) GetPoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := pb.ParseUserRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	point, err := s.points.GetPoint(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toUserPoint(point).ToStruct(), nil
}

func (s *GrpcServer) GetHistories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := pb.ParseUserRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	histories, err := s.points.GetHistories(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]pb.History, 0, len(histories))
	for _, h := range histories {
		out = append(out, pb.History{
			ID:           h.ID,
			UserID:       h.UserID,
			Amount:       h.Amount,
			Type:         h.Type.String(),
			UpdateMillis: h.UpdatedAt.UnixMilli(),
		})
	}
	return pb.HistoriesToStruct(out), nil
}

func (s *GrpcServer) Charge(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.points.Charge)
}

func (s *GrpcServer) Use(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.mutate(ctx, req, s.points.Use)
}

type mutation func(ctx context.Context, userID int64, amount int64) (domain.UserPoint, error)

func (s *GrpcServer) mutate(ctx context.Context, req *structpb.Struct, fn mutation) (*structpb.Struct, error) {
	userID, amount, err := pb.ParseAmountRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	point, err := fn(ctx, userID, amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return toUserPoint(point).ToStruct(), nil
}

func toUserPoint(p domain.UserPoint) pb.UserPoint {
	var millis int64
	if !p.UpdatedAt.IsZero() {
		millis = p.UpdatedAt.UnixMilli()
	}
	return pb.UserPoint{UserID: p.ID, Point: p.Point, UpdateMillis: millis}
}

// toStatus 將業務錯誤轉成 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidUser), errors.Is(err, domain.ErrInvalidAmount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrLimitExceeded), errors.Is(err, domain.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ pb.PointServiceServer = (*GrpcServer)(nil)

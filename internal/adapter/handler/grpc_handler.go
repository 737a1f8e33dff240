package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/cart-store/internal/adapter/handler/pb"
	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/core/service"
)

// SessionMetadataKey carries the session id in gRPC metadata. Servers echo
// it back in the response header, issuing a fresh one when it is missing.
const SessionMetadataKey = "x-session-id"

type GRPCHandler struct {
	pb.UnimplementedCartServiceServer
	cartService     *service.CartService
	wishlistService *service.WishlistService
	logger          *zap.Logger
}

func NewGRPCHandler(cartService *service.CartService, wishlistService *service.WishlistService, logger *zap.Logger) *GRPCHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{
		cartService:     cartService,
		wishlistService: wishlistService,
		logger:          logger,
	}
}

func (h *GRPCHandler) GetCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.reply(h.cartService.View(ctx, sessionID))
}

func (h *GRPCHandler) AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := productIDField(req)
	if err != nil {
		return nil, err
	}
	quantity, ok, err := intField(req, "quantity")
	if err != nil {
		return nil, err
	}
	if !ok {
		quantity = service.DefaultQuantity
	}

	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.reply(h.cartService.AddProduct(ctx, sessionID, productID, int(quantity)))
}

func (h *GRPCHandler) UpdateQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := productIDField(req)
	if err != nil {
		return nil, err
	}
	quantity, ok, err := intField(req, "quantity")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "quantity is required")
	}

	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.reply(h.cartService.UpdateQuantity(ctx, sessionID, productID, int(quantity)))
}

func (h *GRPCHandler) RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := productIDField(req)
	if err != nil {
		return nil, err
	}

	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.reply(h.cartService.RemoveProduct(ctx, sessionID, productID))
}

func (h *GRPCHandler) ClearCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.reply(h.cartService.Clear(ctx, sessionID))
}

func (h *GRPCHandler) GetWishlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.replyWishlist(h.wishlistService.View(ctx, sessionID))
}

func (h *GRPCHandler) AddToWishlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := productIDField(req)
	if err != nil {
		return nil, err
	}

	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.replyWishlist(h.wishlistService.Add(ctx, sessionID, productID))
}

func (h *GRPCHandler) RemoveFromWishlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID, err := productIDField(req)
	if err != nil {
		return nil, err
	}

	sessionID, err := grpcSession(ctx, grpc.SetHeader)
	if err != nil {
		return nil, err
	}
	return h.replyWishlist(h.wishlistService.Remove(ctx, sessionID, productID))
}

// WatchCart streams the current cart view and every later change until the
// client goes away.
func (h *GRPCHandler) WatchCart(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	sessionID, err := grpcSession(ctx, func(_ context.Context, md metadata.MD) error {
		return stream.SetHeader(md)
	})
	if err != nil {
		return err
	}

	views, err := h.cartService.Watch(ctx, sessionID)
	if err != nil {
		return h.mapError(err)
	}

	for view := range views {
		msg, err := toStruct(view)
		if err != nil {
			return status.Errorf(codes.Internal, "encode cart: %v", err)
		}
		if err := stream.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

func (h *GRPCHandler) reply(view domain.CartView, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, h.mapError(err)
	}
	msg, err := toStruct(view)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode cart: %v", err)
	}
	return msg, nil
}

func (h *GRPCHandler) replyWishlist(view domain.WishlistView, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, h.mapError(err)
	}
	msg, err := toStruct(view)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode wishlist: %v", err)
	}
	return msg, nil
}

func (h *GRPCHandler) mapError(err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrInvalidSession):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrAlreadyInWishlist):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	h.logger.Error("grpc request failed", zap.Error(err))
	return status.Errorf(codes.Internal, "internal error: %v", err)
}

func grpcSession(ctx context.Context, setHeader func(context.Context, metadata.MD) error) (string, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(SessionMetadataKey); len(values) > 0 {
			id = values[0]
		}
	}
	if id == "" {
		id = uuid.New().String()
	}

	if err := setHeader(ctx, metadata.Pairs(SessionMetadataKey, id)); err != nil {
		return "", status.Errorf(codes.Internal, "set session header: %v", err)
	}
	return id, nil
}

// maxExactInt is the largest integer every float64 in range represents exactly.
const maxExactInt = 1 << 53

// intField reads an integral number field. Absent fields report false;
// non-numbers, fractions and values beyond ±2^53 are rejected.
func intField(req *structpb.Struct, name string) (int64, bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, true, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, true, status.Errorf(codes.InvalidArgument, "%s must be an integer", name)
	}
	return int64(f), true, nil
}

func productIDField(req *structpb.Struct) (int64, error) {
	id, ok, err := intField(req, "productId")
	if err != nil {
		return 0, err
	}
	if !ok || id <= 0 {
		return 0, status.Error(codes.InvalidArgument, "productId is required")
	}
	return id, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

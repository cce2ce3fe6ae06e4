// Package grpcserver adapts the broadcast hub to the streaming
// OrderbookAggregator RPC: one subscription per client, forwarded to the
// stream until the client disconnects or a send fails.
package grpcserver

import (
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"orderbook-aggregator/internal/broadcast"
	"orderbook-aggregator/internal/pb"
)

// Server implements pb.OrderbookAggregatorServer.
type Server struct {
	pb.UnimplementedOrderbookAggregatorServer

	hub    *broadcast.Hub
	logger *slog.Logger
}

// New creates a Server that streams updates from hub.
func New(hub *broadcast.Hub, logger *slog.Logger) *Server {
	return &Server{hub: hub, logger: logger.With("component", "grpc-server")}
}

// BookSummary subscribes the calling client to the hub and forwards every
// published Summary to the stream until the client goes away, the stream's
// context is cancelled, or a send fails. A send failure ends the session
// immediately — it never retries or falls back to a fresh subscription,
// since a broken stream cannot be un-broken.
func (s *Server) BookSummary(_ *pb.Empty, stream pb.OrderbookAggregator_BookSummaryServer) error {
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)

	ctx := stream.Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case summary := <-sub.C():
			if err := stream.Send(summary); err != nil {
				s.logger.Warn("failed to send summary to client, ending session", "error", err)
				return status.Errorf(codes.Internal, "send summary: %v", err)
			}
		}
	}
}

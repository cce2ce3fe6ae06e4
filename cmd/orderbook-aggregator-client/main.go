// orderbook-aggregator-client is a reference client that connects to an
// orderbook-aggregator-server instance and prints every streamed Summary
// until the connection closes or the process is interrupted.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"orderbook-aggregator/internal/pb"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", "localhost:50051", "orderbook-aggregator-server address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Error("failed to connect", "addr", addr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	client := pb.NewOrderbookAggregatorClient(conn)

	stream, err := client.BookSummary(context.Background(), &pb.Empty{})
	if err != nil {
		logger.Error("failed to open stream", "error", err)
		os.Exit(1)
	}

	for {
		summary, err := stream.Recv()
		if err == io.EOF {
			logger.Info("stream closed by server")
			return
		}
		if err != nil {
			logger.Error("stream error", "error", err)
			os.Exit(1)
		}

		logger.Info("book summary",
			"spread", summary.Spread,
			"best_ask", summary.Asks[0].Price,
			"best_ask_exchange", summary.Asks[0].Exchange,
			"best_bid", summary.Bids[0].Price,
			"best_bid_exchange", summary.Bids[0].Exchange,
		)
	}
}

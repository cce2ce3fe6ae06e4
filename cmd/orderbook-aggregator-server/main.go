// orderbook-aggregator-server streams a synthetic top-of-book view for one
// instrument, merged in real time from every upstream exchange feed this
// binary fans in.
//
// Architecture:
//
//	main.go                    — entry point: loads config, wires listeners → aggregator → gRPC, waits for SIGINT/SIGTERM
//	internal/wsclient          — raw WebSocket dial/read/write with reconnect
//	internal/feed              — per-exchange subscribe/parse/change-detection, one Listener goroutine per feed
//	internal/bookmodel         — shared feed/order/book vocabulary
//	internal/aggregator        — merges every feed's top-N into one top-N Summary
//	internal/broadcast         — fans the latest Summary out to every gRPC session
//	internal/grpcserver        — adapts the broadcast hub to the streaming RPC
//	internal/pb                — generated-style protobuf/gRPC types
//
// How the merged view stays current:
//
//	Each Listener reconnects and resubscribes independently on any
//	transport error, publishing its own top-N book to a shared ingest
//	queue whenever the raw message actually changed. The aggregator drains
//	that queue, recomputes the merged top-N, and publishes once per batch
//	of updates — never more than once per drain, never blocking on a slow
//	gRPC client.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"orderbook-aggregator/internal/aggregator"
	"orderbook-aggregator/internal/bookmodel"
	"orderbook-aggregator/internal/broadcast"
	"orderbook-aggregator/internal/config"
	"orderbook-aggregator/internal/feed"
	"orderbook-aggregator/internal/grpcserver"
	"orderbook-aggregator/internal/pb"
)

// ingestQueueSize bounds the channel every listener publishes to and the
// aggregator drains. Sized generously so a burst of changed frames across
// both feeds never blocks a listener's read loop.
const ingestQueueSize = 1 << 20

func main() {
	var instrumentName string
	flag.StringVar(&instrumentName, "instrument-name", "", "instrument to subscribe to on every feed (required)")
	flag.StringVar(&instrumentName, "i", "", "shorthand for --instrument-name")
	flag.Parse()

	if instrumentName == "" {
		slog.Error("missing required flag", "flag", "-i/--instrument-name")
		os.Exit(1)
	}

	cfgPath := "configs/config.yaml"
	if p := os.Getenv("OBA_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := make(chan bookmodel.FeedOrderBook, ingestQueueSize)
	hub := broadcast.NewHub(logger)

	for f := bookmodel.Feed(0); int(f) < bookmodel.FeedCount; f++ {
		listener, err := feed.NewListener(ctx, f, instrumentName, queue, logger)
		if err != nil {
			logger.Error("failed to start listener", "feed", f.String(), "error", err)
			os.Exit(1)
		}
		go func() {
			if err := listener.Run(ctx); err != nil {
				logger.Error("listener stopped", "feed", f.String(), "error", err)
			}
		}()
	}

	agg := aggregator.New(queue, hub, logger)
	go agg.Run(ctx)

	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)))
	if err != nil {
		logger.Error("failed to listen", "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterOrderbookAggregatorServer(grpcServer, grpcserver.New(hub, logger))
	reflection.Register(grpcServer)

	go func() {
		logger.Info("gRPC server listening", "addr", lis.Addr().String(), "instrument", instrumentName)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	cancel()
	grpcServer.GracefulStop()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

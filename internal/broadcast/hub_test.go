package broadcast

import (
	"io"
	"log/slog"
	"testing"

	"orderbook-aggregator/internal/pb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubPublishDeliversToSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	want := &pb.Summary{Spread: 0.5}
	hub.Publish(want)

	select {
	case got := <-sub.C():
		if got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	default:
		t.Fatal("subscriber did not receive published summary")
	}
}

func TestHubPublishLatestWinsWhenSubscriberIsSlow(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	first := &pb.Summary{Spread: 1}
	second := &pb.Summary{Spread: 2}
	hub.Publish(first)
	hub.Publish(second) // sub hasn't drained yet; first should be evicted

	got := <-sub.C()
	if got != second {
		t.Errorf("got %v, want the latest publish %v", got, second)
	}

	select {
	case extra := <-sub.C():
		t.Errorf("unexpected extra value in channel: %v", extra)
	default:
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	hub.Publish(&pb.Summary{Spread: 1})

	select {
	case got := <-sub.C():
		t.Errorf("unsubscribed subscriber received %v", got)
	default:
	}
}

func TestHubMultipleSubscribersEachGetTheUpdate(t *testing.T) {
	t.Parallel()

	hub := NewHub(testLogger())
	subA := hub.Subscribe()
	subB := hub.Subscribe()
	defer hub.Unsubscribe(subA)
	defer hub.Unsubscribe(subB)

	want := &pb.Summary{Spread: 3}
	hub.Publish(want)

	if got := <-subA.C(); got != want {
		t.Errorf("subA got %v, want %v", got, want)
	}
	if got := <-subB.C(); got != want {
		t.Errorf("subB got %v, want %v", got, want)
	}
}

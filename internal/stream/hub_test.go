package stream

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub(nil)

	a := hub.Register("user-1")
	b := hub.Register("user-1")
	other := hub.Register("user-2")

	if hub.ConnectedDevices("user-1") != 2 {
		t.Fatalf("expected 2 devices")
	}

	hub.Broadcast("user-1", []byte("ping"))

	for _, client := range []*Client{a, b} {
		select {
		case msg := <-client.Send:
			if string(msg) != "ping" {
				t.Fatalf("unexpected payload: %s", msg)
			}
		default:
			t.Fatalf("expected payload on client channel")
		}
	}

	select {
	case <-other.Send:
		t.Fatalf("user-2 should not receive user-1 events")
	default:
	}

	hub.Unregister(a)
	hub.Unregister(b)
	if hub.ConnectedDevices("user-1") != 0 {
		t.Fatalf("expected no devices after unregister")
	}
	hub.Unregister(other)
}

func TestBroadcastSkipsFullClient(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user-1")

	for i := 0; i < cap(client.Send); i++ {
		hub.Broadcast("user-1", []byte("fill"))
	}
	// must not block even though the buffer is full
	hub.Broadcast("user-1", []byte("overflow"))
	hub.Unregister(client)
}

func TestBroadcastDeliversExactlyOnceWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub(rdb)
	// give the pattern subscription a moment to attach
	time.Sleep(50 * time.Millisecond)

	client := hub.Register("user-1")
	hub.Broadcast("user-1", []byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected direct delivery")
	}

	// the hub's own publish must not loop back as a second delivery
	select {
	case msg := <-client.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(300 * time.Millisecond):
	}
	hub.Unregister(client)
}

func TestBroadcastReachesOtherInstances(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	local := NewHub(rdb)
	remote := NewHub(rdb)
	time.Sleep(50 * time.Millisecond)

	client := remote.Register("user-1")
	local.Broadcast("user-1", []byte("cross"))

	select {
	case msg := <-client.Send:
		if string(msg) != "cross" {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected delivery on the other instance")
	}
	remote.Unregister(client)
}

func TestChannelNameRoundTrip(t *testing.T) {
	if got := userIDFromChannel(redisChannel("user-9")); got != "user-9" {
		t.Fatalf("round trip failed: %s", got)
	}
	if userIDFromChannel("bogus") != "" {
		t.Fatalf("expected empty user for malformed channel")
	}
}

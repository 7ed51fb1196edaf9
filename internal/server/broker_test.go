package server

import (
	"encoding/json"
	"testing"

	"github.com/arenaforge/bossrush/internal/game"
)

func TestBrokerPublishReachesSessionSubscribers(t *testing.T) {
	b := NewBroker()

	ch1 := b.Subscribe("s1")
	ch2 := b.Subscribe("s1")
	other := b.Subscribe("s2")

	cfg := game.DefaultConfig()
	b.Publish("s1", AdjustmentEvent{Type: "config_updated", Round: 3, LLMUsed: true, Config: &cfg})

	for _, ch := range []chan []byte{ch1, ch2} {
		select {
		case data := <-ch:
			var ev AdjustmentEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			if ev.Type != "config_updated" || ev.Round != 3 || !ev.LLMUsed {
				t.Errorf("unexpected event: %+v", ev)
			}
		default:
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other:
		t.Error("event leaked to another session's subscriber")
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("s1")
	b.Unsubscribe("s1", ch)

	b.Publish("s1", AdjustmentEvent{Type: "config_updated"})

	select {
	case <-ch:
		t.Error("unsubscribed channel received event")
	default:
	}
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s1")

	// Fill the buffer and keep publishing. Publish must not block.
	for i := 0; i < 40; i++ {
		b.Publish("s1", AdjustmentEvent{Type: "config_updated"})
	}

	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want full buffer of %d", len(ch), cap(ch))
	}
}

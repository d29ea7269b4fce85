package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/wicketick/internal/snapshot-relay/pubsub"
	"github.com/radieske/wicketick/internal/wicketick"
	"github.com/radieske/wicketick/pkg/contracts/events"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMsg) ServerMsg {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
	var reply ServerMsg
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func allowAll(*http.Request) bool { return true }

func TestHubControlMessages(t *testing.T) {
	hub := NewHub(allowAll, zap.NewNop())
	conn := dial(t, hub)

	if got := send(t, conn, ClientMsg{Type: "ping"}); got.Type != "pong" {
		t.Errorf("ping reply = %+v", got)
	}
	if got := send(t, conn, ClientMsg{Type: "subscribe"}); got.Type != "error" {
		t.Errorf("subscribe without match = %+v", got)
	}
	if got := send(t, conn, ClientMsg{Type: "subscribe", MatchID: "42"}); got.Type != "subscribed" || got.MatchID != "42" {
		t.Errorf("subscribe reply = %+v", got)
	}
	if hub.Subscribers("42") != 1 {
		t.Errorf("subscribers = %d", hub.Subscribers("42"))
	}
	if got := send(t, conn, ClientMsg{Type: "unsubscribe", MatchID: "42"}); got.Type != "unsubscribed" {
		t.Errorf("unsubscribe reply = %+v", got)
	}
	if hub.Subscribers("42") != 0 {
		t.Errorf("subscribers after unsubscribe = %d", hub.Subscribers("42"))
	}
}

func TestRelayDeliversToSubscribers(t *testing.T) {
	hub := NewHub(allowAll, zap.NewNop())
	delivered := make(chan int, 1)
	hub.OnBroadcast = func(n int) { delivered <- n }
	conn := dial(t, hub)
	send(t, conn, ClientMsg{Type: "subscribe", MatchID: "42"})

	upd := pubsub.WSUpdate{
		MatchID: "42",
		Payload: events.SnapshotUpdate{
			MatchID:  "42",
			Version:  2,
			Snapshot: wicketick.Snapshot{CurrentInnings: wicketick.Innings{Runs: 64, Wickets: 0, Overs: "6"}},
		},
	}
	raw, _ := json.Marshal(upd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := make(chan *redis.Message, 3)
	ch <- &redis.Message{Payload: "not json"}
	ch <- &redis.Message{Payload: `{"matchId":"other"}`}
	ch <- &redis.Message{Payload: string(raw)}
	stopped := make(chan struct{})
	go Relay(ctx, ch, hub, zap.NewNop(), func() { close(stopped) })

	var got pubsub.WSUpdate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.MatchID != "42" || got.Payload.Version != 2 || got.Payload.Snapshot.CurrentInnings.Runs != 64 {
		t.Errorf("update = %+v", got)
	}
	select {
	case n := <-delivered:
		if n != 1 {
			t.Errorf("delivered = %d", n)
		}
	case <-time.After(time.Second):
		t.Error("OnBroadcast not called")
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Error("relay did not stop on cancel")
	}
}

func TestBroadcastSkipsStalledClient(t *testing.T) {
	hub := NewHub(allowAll, zap.NewNop())
	delivered := make(chan int, 1)
	hub.OnBroadcast = func(n int) { delivered <- n }

	// cliente sem writeLoop e com a fila cheia: nunca drena
	stalled := &client{send: make(chan []byte, 1), done: make(chan struct{})}
	stalled.send <- []byte(`{}`)
	hub.subscribe(stalled, "42")

	conn := dial(t, hub)
	send(t, conn, ClientMsg{Type: "subscribe", MatchID: "42"})

	returned := make(chan struct{})
	go func() {
		hub.Broadcast(pubsub.WSUpdate{MatchID: "42", Payload: events.SnapshotUpdate{MatchID: "42", Version: 5}})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	if n := <-delivered; n != 1 {
		t.Errorf("delivered = %d, want 1", n)
	}

	var got pubsub.WSUpdate
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Payload.Version != 5 {
		t.Errorf("update = %+v", got)
	}
}

package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/waitlist/internal/hub"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

func TestHandler_StreamsSnapshots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h := hub.NewHub(ctx)
	srv := httptest.NewServer(Handler(h, nil))
	defer srv.Close()

	// published before the client connects, so it arrives as a replay
	h.Notify(ctx, []types.RankingEntry{{Position: 1, Name: "ann"}})

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg types.FeedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, types.FeedRankingSnapshot, msg.Type)
	assert.Equal(t, 1, msg.Version)
	require.Len(t, msg.Rankings, 1)
	assert.Equal(t, "ann", msg.Rankings[0].Name)

	h.Notify(ctx, []types.RankingEntry{{Position: 1, Name: "ann"}, {Position: 2, Name: "bo"}})
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, 2, msg.Version)
	assert.Len(t, msg.Rankings, 2)
}

func TestHandler_ClosesWhenHubIsDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hubCtx, stopHub := context.WithCancel(ctx)
	h := hub.NewHub(hubCtx)
	stopHub()
	<-h.Done()

	srv := httptest.NewServer(Handler(h, nil))
	defer srv.Close()

	// repeated to cover both branches of the subscribe select
	for i := 0; i < 20; i++ {
		conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
		require.NoError(t, err)

		_, _, err = conn.Read(ctx)
		require.Error(t, err)
		assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
		conn.CloseNow()
	}
}

func TestRandID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := randID(8)
		if len(id) != 8 {
			t.Fatalf("randID(8) = %q, want 8 chars", id)
		}
		seen[id] = true
	}
	if len(seen) < 100 {
		t.Fatalf("got %d distinct ids out of 100", len(seen))
	}
}

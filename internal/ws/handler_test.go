package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/engine"
	"github.com/DoyleJ11/lolnotes/internal/lobby"
	"github.com/DoyleJ11/lolnotes/internal/types"
	wire "github.com/DoyleJ11/lolnotes/pkg/types"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientHandler_DeliversFramesAndTracksConnection(t *testing.T) {
	pipe := connection.NewPipe(zap.NewNop())

	var mu sync.Mutex
	var got []wire.Envelope
	statuses := make(chan bool, 4)
	pipe.OnFrame(func(e wire.Envelope) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	pipe.OnConnectedChanged(func(c bool) { statuses <- c })

	srv := httptest.NewServer(ClientHandler(pipe, zap.NewNop()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)
	assert.True(t, <-statuses)

	// a second game client is refused while the first is attached
	_, resp, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	}

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`not json`)))
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"GameDTO","body":{"id":1}}`)))
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"GameDTO","body":{"id":2}}`)))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.JSONEq(t, `{"id":1}`, string(got[0].Body))
	assert.JSONEq(t, `{"id":2}`, string(got[1].Body))
	mu.Unlock()

	conn.Close(websocket.StatusNormalClosure, "")
	select {
	case c := <-statuses:
		assert.False(t, c)
	case <-time.After(time.Second):
		t.Fatalf("disconnect not reported")
	}
}

func readView(t *testing.T, ctx context.Context, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWatchHandler_StreamsLobbyViews(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lb := lobby.NewLobby(ctx, 5)
	srv := httptest.NewServer(WatchHandler(lb, zap.NewNop()))
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	first := readView(t, ctx, conn)
	assert.Equal(t, "LobbyView", first.Type)
	assert.Equal(t, 0, first.Version)

	lb.PresentSlot(1, 0, engine.SlotUpdate{Visible: true})

	next := readView(t, ctx, conn)
	assert.Equal(t, 1, next.Version)
	require.NotNil(t, next.State)
	assert.True(t, next.State.Teams[1].Slots[0].Visible)
}

func TestWatchHandler_LobbyGoneClosesWatcher(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lobbyCtx, stopLobby := context.WithCancel(ctx)
	lb := lobby.NewLobby(lobbyCtx, 5)
	stopLobby()
	<-lb.Done()

	// fill the inbox so an unguarded join would block forever
	for i := 0; i < 64; i++ {
		select {
		case lb.Inbox() <- lobby.GetState{Reply: make(chan lobby.View, 1)}:
		default:
		}
	}

	srv := httptest.NewServer(WatchHandler(lb, zap.NewNop()))
	defer srv.Close()

	conn, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
	defer readCancel()
	for err == nil {
		// a view may slip through if the join raced the shutdown
		_, _, err = conn.Read(readCtx)
	}
	assert.Equal(t, websocket.StatusTryAgainLater, websocket.CloseStatus(err))
}

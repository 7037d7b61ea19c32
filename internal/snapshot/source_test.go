package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lolnotes/internal/connection"
	"github.com/DoyleJ11/lolnotes/internal/game"
	"github.com/DoyleJ11/lolnotes/pkg/types"
)

// helper: receive one snapshot with a timeout so tests never hang
func recvGame(t *testing.T, ch <-chan game.GameDTO, within time.Duration) game.GameDTO {
	t.Helper()
	select {
	case g := <-ch:
		return g
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return game.GameDTO{} // unreachable
	}
}

func gameFrame(id int64) types.Envelope {
	return types.Envelope{Type: types.TypeGameDTO, Body: []byte(fmt.Sprintf(`{"id": %d, "teamOne": []}`, id))}
}

func TestSource_DeliversInOrderOneAtATime(t *testing.T) {
	pipe := connection.NewPipe(zap.NewNop())

	var inFlight, maxInFlight atomic.Int32
	out := make(chan game.GameDTO, 16)
	cb := func(ctx context.Context, g game.GameDTO) {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		out <- g
	}

	src := NewSource(context.Background(), pipe, cb, zap.NewNop())
	defer src.Close()

	go func() {
		for id := int64(1); id <= 10; id++ {
			pipe.Deliver(gameFrame(id))
		}
	}()

	for id := int64(1); id <= 10; id++ {
		g := recvGame(t, out, time.Second)
		assert.Equal(t, id, g.ID)
	}
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestSource_SlowConsumerBlocksReader(t *testing.T) {
	pipe := connection.NewPipe(zap.NewNop())

	release := make(chan struct{})
	out := make(chan game.GameDTO, 4)
	src := NewSource(context.Background(), pipe, func(ctx context.Context, g game.GameDTO) {
		<-release
		out <- g
	}, zap.NewNop())
	defer src.Close()

	pipe.Deliver(gameFrame(1)) // taken by the loop, callback now blocked

	delivered := make(chan struct{})
	go func() {
		pipe.Deliver(gameFrame(2))
		close(delivered)
	}()

	select {
	case <-delivered:
		t.Fatalf("second frame accepted while first still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.Equal(t, int64(1), recvGame(t, out, time.Second).ID)
	assert.Equal(t, int64(2), recvGame(t, out, time.Second).ID)
	<-delivered
}

func TestSource_DropsMalformedAndOtherTypes(t *testing.T) {
	pipe := connection.NewPipe(zap.NewNop())

	out := make(chan game.GameDTO, 4)
	src := NewSource(context.Background(), pipe, func(ctx context.Context, g game.GameDTO) { out <- g }, zap.NewNop())
	defer src.Close()

	pipe.Deliver(types.Envelope{Type: types.TypeGameDTO, Body: []byte(`{"id":`)})
	pipe.Deliver(types.Envelope{Type: types.TypeEndOfGameStats, Body: []byte(`{}`)})
	pipe.Deliver(gameFrame(3))

	g := recvGame(t, out, time.Second)
	require.Equal(t, int64(3), g.ID)

	select {
	case extra := <-out:
		t.Fatalf("unexpected snapshot %+v", extra)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSource_CloseUnblocksReader(t *testing.T) {
	pipe := connection.NewPipe(zap.NewNop())
	src := NewSource(context.Background(), pipe, func(ctx context.Context, g game.GameDTO) {
		<-ctx.Done()
	}, zap.NewNop())

	pipe.Deliver(gameFrame(1))

	done := make(chan struct{})
	go func() {
		pipe.Deliver(gameFrame(2))
		close(done)
	}()

	src.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reader still blocked after Close")
	}
}

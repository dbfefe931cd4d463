package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/specialistvlad/paintworklet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_RejectsRelativeURL(t *testing.T) {
	ctx, _ := testutil.LogContext(t)

	_, err := Connect(ctx, "/socket.io/", Options{})

	assert.ErrorContains(t, err, "must be absolute")
}

func TestConnect_FailsAgainstNonSocketIOServer(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Connect(ctx, srv.URL+"/socket.io/", Options{ConnectTimeout: 2 * time.Second})

	require.Error(t, err)
}

func TestConnect_HonoursContext(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	_, err := Connect(ctx, "http://127.0.0.1:1/socket.io/", Options{ConnectTimeout: time.Minute})

	require.Error(t, err)
}

func TestEventPayload(t *testing.T) {
	ev := Event{Worklet: "w", Paint: "p", Key: "img-3", Fallback: true, Width: 2, Height: 1}

	got := ev.payload()

	assert.Equal(t, map[string]any{
		"worklet":  "w",
		"paint":    "p",
		"key":      "img-3",
		"fallback": true,
		"width":    uint32(2),
		"height":   uint32(1),
	}, got)

	ev.Location = "/tmp/x.png"
	ev.PNG = []byte{1}
	got = ev.payload()
	assert.Equal(t, "/tmp/x.png", got["location"])
	assert.Equal(t, []byte{1}, got["png"])
}

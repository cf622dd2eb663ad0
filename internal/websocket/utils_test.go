package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHelpers(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var req RequestEnvelope
		if err := ReadJSON(conn, &req); err != nil {
			return
		}
		if req.Action == ActionPing {
			_ = WriteTyped(conn, PongResponse{Event: EventPong})
		}
		_ = WriteRaw(conn, []byte(`{"type":"course.saved","course_id":7}`))
		_ = WriteError(conn, "boom")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(RequestEnvelope{Action: ActionPing}))

	var pong PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, EventPong, pong.Event)

	kind, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.JSONEq(t, `{"type":"course.saved","course_id":7}`, string(payload))

	var errResp ErrorResponse
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Equal(t, EventError, errResp.Event)
	assert.Equal(t, "boom", errResp.Error)
}

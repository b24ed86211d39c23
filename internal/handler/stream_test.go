package handler

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmeditor/internal/config"
	"dmeditor/internal/domain/models"
)

// readSSE returns the next event name and data, skipping comments
func readSSE(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "":
			if name != "" || data != "" {
				return name, data
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data += strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestStream(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	id := env.createSession(t)

	// the timeout bounds every read below
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(srv.URL + "/api/sessions/" + id + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	env.do(t, http.MethodPost, "/api/sessions/"+id+"/messages", `{"type":"init","value":"<p>hi</p>"}`)
	env.do(t, http.MethodPost, "/api/sessions/"+id+"/events", `{"type":"ready"}`)

	var got []models.Event
	for len(got) < 2 {
		name, data := readSSE(t, reader)
		var ev models.Event
		require.NoError(t, json.Unmarshal([]byte(data), &ev))
		require.Equal(t, string(ev.Kind), name)
		got = append(got, ev)
	}

	require.Len(t, got, 2)
	assert.Equal(t, models.NoticeSetContent, got[0].Notice.Type)
	assert.Equal(t, "<p>hi</p>", got[0].Notice.Value)
	assert.Equal(t, models.NoticeCounter, got[1].Notice.Type)
	assert.Equal(t, "Email Size: 9", got[1].Notice.Status.Text)

	env.manager.CloseAll()
	name, _ := readSSE(t, reader)
	assert.Equal(t, "close", name)
}

func TestStream_UnknownSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/sessions/00000000-0000-0000-0000-000000000001/stream", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocket(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	id := env.createSession(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + id + "/ws"

	header := http.Header{}
	header.Set("Origin", testOrigin)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(frame{Type: "init", Value: `<p><a href="example.com">x</a></p>`}))
	require.NoError(t, conn.WriteJSON(frame{Type: "ready"}))
	require.NoError(t, conn.WriteJSON(frame{Type: "edit", Value: `<p><a href="example.com">y</a></p>`}))
	require.NoError(t, conn.WriteJSON(frame{Type: "requestContent"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var live, change *models.Message
	for change == nil {
		var ev models.Event
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Kind != models.EventMessage {
			continue
		}
		switch ev.Message.Type {
		case models.MessageLiveUpdate:
			live = ev.Message
		case models.MessageChange:
			change = ev.Message
		}
	}

	require.NotNil(t, live)
	assert.Equal(t, `<p><a href="example.com">y</a></p>`, live.Value)
	assert.Equal(t, `<p><a href="HTTPGetWrap|https://example.com/">y</a></p>`, change.Value)
	assert.NotContains(t, live.Value, config.LinkMarker)
}

func TestWebSocket_RejectsOrigin(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	id := env.createSession(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + id + "/ws"

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/httpapi"
	"github.com/korylprince/twin-client/twin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusBody = `{
	"availability": "winding_down",
	"energy_estimate": "low",
	"best_contact_method": "async",
	"suggested_wait_time": "tomorrow",
	"context_summary": "End of workday. Best to reach out tomorrow morning.",
	"meeting_count": 3,
	"meetings_remaining": 0,
	"in_meeting": true
}`

// fakeBackend is a stand-in for the twin backend
type fakeBackend struct {
	mu       sync.Mutex
	queries  []string
	failChat bool

	// if set, the chat handler signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (b *fakeBackend) router() http.Handler {
	r := mux.NewRouter()
	r.Path("/api/chat").Methods("POST").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatbot.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		b.queries = append(b.queries, req.Query)
		b.mu.Unlock()

		if b.entered != nil {
			b.entered <- struct{}{}
			<-b.release
		}
		if b.failChat {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "You asked: " + req.Query,
			"sources":  []string{"resume.md"},
		})
	})
	r.Path("/api/status").Methods("GET").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusBody))
	})
	return r
}

func (b *fakeBackend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

type fixture struct {
	backend *fakeBackend
	sess    *chatbot.Session
	router  http.Handler
}

func newFixture(t *testing.T, backend *fakeBackend) *fixture {
	t.Helper()
	srv := httptest.NewServer(backend.router())
	t.Cleanup(srv.Close)

	log, _ := logtest.NewNullLogger()
	sess := chatbot.NewSession(chatbot.NewClient(srv.URL, nil), log)

	return &fixture{
		backend: backend,
		sess:    sess,
		router:  httpapi.NewRouter(log, sess, nil),
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "GET", "/api/1.0/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadMessagesEmpty(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "GET", "/api/1.0/messages/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"messages":[],"pending":false}`, w.Body.String())
}

func TestCreateMessage(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "POST", "/api/1.0/messages/", `{"message":"  What's your background?  "}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp httpapi.CreateMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, twin.RoleUser, resp.User.Role)
	assert.Equal(t, "What's your background?", resp.User.Content)
	assert.Equal(t, twin.RoleAssistant, resp.Reply.Role)
	assert.Equal(t, "You asked: What's your background?", resp.Reply.Content)
	assert.Equal(t, []string{"resume.md"}, resp.Reply.Sources)

	w = f.do(t, "GET", "/api/1.0/messages/", "")
	var msgs httpapi.ReadMessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs.Messages, 2)
	assert.Equal(t, resp.User.ID, msgs.Messages[0].ID)
	assert.Equal(t, resp.Reply.ID, msgs.Messages[1].ID)
	assert.False(t, msgs.Pending)
}

func TestCreateMessageRejected(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "POST", "/api/1.0/messages/", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"code":400,"error":"message cannot be empty"}`, w.Body.String())

	w = f.do(t, "POST", "/api/1.0/messages/", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("POST", "/api/1.0/messages/", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, f.sess.Thread.Len())
	assert.Empty(t, f.backend.Queries())
}

func TestCreateMessageWhilePending(t *testing.T) {
	backend := &fakeBackend{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixture(t, backend)

	done := make(chan int)
	go func() {
		done <- f.do(t, "POST", "/api/1.0/messages/", `{"message":"first"}`).Code
	}()
	<-backend.entered

	w := f.do(t, "GET", "/api/1.0/messages/", "")
	assert.JSONEq(t, `true`, string(mustField(t, w.Body.Bytes(), "pending")))

	w = f.do(t, "POST", "/api/1.0/messages/", `{"message":"second"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, f.sess.Thread.Len())

	close(backend.release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, []string{"first"}, backend.Queries())
	assert.Equal(t, 2, f.sess.Thread.Len())
}

func TestCreateMessageBackendFailure(t *testing.T) {
	f := newFixture(t, &fakeBackend{failChat: true})

	w := f.do(t, "POST", "/api/1.0/messages/", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpapi.CreateMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chatbot.FallbackReply, resp.Reply.Content)
	assert.Equal(t, 2, f.sess.Thread.Len())
}

func TestReadStatusUnknown(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "GET", "/api/1.0/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpapi.ReadStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Status)
	assert.False(t, resp.Panel.Known)
	assert.Equal(t, "⚪", resp.Panel.Emoji)
}

func TestReadStatusRoundTrip(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	require.NoError(t, f.sess.Status.Fetch(context.Background()))

	w := f.do(t, "GET", "/api/1.0/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, statusBody, string(mustField(t, w.Body.Bytes(), "status")))

	var resp httpapi.ReadStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "🟠", resp.Panel.Emoji)
	assert.Equal(t, "Winding_down", resp.Panel.Label)
	assert.True(t, resp.Panel.Banner)
	assert.Equal(t, "0 meetings remaining", resp.Panel.MeetingsLine())
}

func TestReadPrompts(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "GET", "/api/1.0/prompts/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp httpapi.ReadPromptsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chatbot.SuggestedPrompts(), resp.Prompts)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "GET", "/api/1.0/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":404,"error":"Not Found"}`, w.Body.String())

	w = f.do(t, "DELETE", "/api/1.0/messages/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"code":405,"error":"Method Not Allowed"}`, w.Body.String())

	w = f.do(t, "POST", "/api/1.0/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, "PUT", "/api/1.0/status", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCreateMessageRequiresJSON(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	w := f.do(t, "POST", "/api/1.0/messages/", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.sess.Thread.Len())
	assert.Empty(t, f.backend.Queries())
}

func TestEvents(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	require.NoError(t, f.sess.Status.Fetch(context.Background()))

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/1.0/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() chatbot.ServerMessage {
		t.Helper()
		var msg chatbot.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	// replay: no messages yet, then status, then done
	status := read()
	assert.Equal(t, chatbot.MessageTypeStatus, status.Type)
	require.NotNil(t, status.Status)
	assert.Equal(t, twin.AvailabilityWindingDown, status.Status.Availability)
	assert.Equal(t, chatbot.MessageTypeDone, read().Type)

	require.NoError(t, conn.WriteJSON(chatbot.ClientMessage{Message: "hi there"}))

	user := read()
	assert.Equal(t, chatbot.MessageTypeMessage, user.Type)
	assert.Equal(t, "hi there", user.Message.Content)
	assert.Equal(t, chatbot.MessageTypePending, read().Type)
	reply := read()
	assert.Equal(t, twin.RoleAssistant, reply.Message.Role)
	assert.Equal(t, "You asked: hi there", reply.Message.Content)
	assert.Equal(t, chatbot.MessageTypeDone, read().Type)

	require.NoError(t, conn.WriteJSON(chatbot.ClientMessage{Message: " "}))
	rejected := read()
	assert.Equal(t, chatbot.MessageTypeError, rejected.Type)
	assert.Equal(t, chatbot.ErrEmptyInput.Error(), rejected.Error)

	assert.Equal(t, 2, f.sess.Thread.Len())
}

func TestEventsBroadcastsTurnToEveryClient(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/1.0/events"
	dial := func() *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		// empty replay
		var msg chatbot.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, chatbot.MessageTypeDone, msg.Type)
		return conn
	}

	sender := dial()
	defer sender.Close()
	watcher := dial()
	defer watcher.Close()

	require.NoError(t, sender.WriteJSON(chatbot.ClientMessage{Message: "anyone there?"}))

	for _, conn := range []*websocket.Conn{sender, watcher} {
		var types, contents []string
		for {
			var msg chatbot.ServerMessage
			require.NoError(t, conn.ReadJSON(&msg))
			types = append(types, msg.Type)
			if msg.Message != nil {
				contents = append(contents, msg.Message.Content)
			}
			if msg.Type == chatbot.MessageTypeDone {
				break
			}
		}
		assert.Equal(t, []string{"message", "pending", "message", "done"}, types)
		assert.Equal(t, []string{"anyone there?", "You asked: anyone there?"}, contents)
	}

	// rejections only go back to the client that sent them
	require.NoError(t, watcher.WriteJSON(chatbot.ClientMessage{Message: "  "}))
	var rejected chatbot.ServerMessage
	require.NoError(t, watcher.ReadJSON(&rejected))
	assert.Equal(t, chatbot.MessageTypeError, rejected.Type)

	sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var extra chatbot.ServerMessage
	assert.Error(t, sender.ReadJSON(&extra))
}

func TestEventsReplaysThread(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	_, err := f.sess.Orchestrator.Submit(context.Background(), "earlier question")
	require.NoError(t, err)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/1.0/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var types []string
	var contents []string
	for {
		var msg chatbot.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		types = append(types, msg.Type)
		if msg.Message != nil {
			contents = append(contents, msg.Message.Content)
		}
		if msg.Type == chatbot.MessageTypeDone {
			break
		}
	}

	assert.Equal(t, []string{"message", "message", "done"}, types)
	assert.Equal(t, []string{"earlier question", "You asked: earlier question"}, contents)
}

func TestEventsRejectsForeignOrigin(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.router())
	defer srv.Close()

	log, _ := logtest.NewNullLogger()
	sess := chatbot.NewSession(chatbot.NewClient(srv.URL, nil), log)
	panel := httptest.NewServer(httpapi.NewRouter(log, sess, []string{"http://localhost:3000"}))
	defer panel.Close()

	url := "ws" + strings.TrimPrefix(panel.URL, "http") + "/api/1.0/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m[field]
}

package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/korylprince/twin-client/twin"
	"github.com/sirupsen/logrus"
)

// FallbackReply is appended as the assistant's answer when the chat backend fails
const FallbackReply = "Sorry, something went wrong while answering. The backend may be unavailable right now, please try again later."

// Submission errors. Neither has any side effect on the thread.
var (
	ErrEmptyInput = errors.New("message cannot be empty")
	ErrPending    = errors.New("a message is already being answered")
)

// Turn is one accepted submission. Reply is set once the turn completes.
type Turn struct {
	Request *ChatRequest
	User    twin.Message
	Reply   *twin.Message
}

// Orchestrator turns user input into exactly one user and one assistant message on a Thread,
// allowing a single outstanding chat request at a time.
//
// A submission runs in two phases: Begin appends the user message and marks the
// orchestrator pending; Complete appends the reply (or FallbackReply) and clears it.
type Orchestrator struct {
	mu      sync.Mutex
	pending bool

	thread *Thread
	client ChatClient
	log    logrus.FieldLogger
}

// NewOrchestrator creates a new Orchestrator writing to thread
func NewOrchestrator(thread *Thread, client ChatClient, log logrus.FieldLogger) *Orchestrator {
	return &Orchestrator{
		thread: thread,
		client: client,
		log:    log,
	}
}

// Pending reports whether a chat request is in flight
func (o *Orchestrator) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.pending
}

// Begin validates rawInput, captures the history before the new message, appends the
// user message and enters the pending state. It returns ErrEmptyInput or ErrPending
// without touching the thread if the submission is rejected.
func (o *Orchestrator) Begin(rawInput string) (*Turn, error) {
	query := strings.TrimSpace(rawInput)
	if query == "" {
		return nil, ErrEmptyInput
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending {
		return nil, ErrPending
	}

	history := o.thread.SnapshotHistory()
	user := twin.NewMessage(twin.RoleUser, query, nil)
	o.thread.Append(user)
	o.pending = true

	o.log.WithFields(logrus.Fields{
		"message_id":    user.ID,
		"history_count": len(history),
	}).Debug("submission accepted")

	return &Turn{
		Request: &ChatRequest{Query: query, History: history},
		User:    user,
	}, nil
}

// Request sends req to the chat backend. It performs no thread mutation, so it can run
// outside whatever loop owns the session. A panic in the backend client becomes an error.
func (o *Orchestrator) Request(ctx context.Context, req *ChatRequest) (resp *ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("chat client panicked: %v", r)
		}
	}()
	return o.client.Chat(ctx, req)
}

// Complete appends the assistant's reply for the pending turn and leaves the pending state.
// Any error, or a nil resp, appends FallbackReply instead. If no turn is pending, Complete
// appends nothing and returns nil.
func (o *Orchestrator) Complete(resp *ChatResponse, err error) *twin.Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.pending {
		o.log.Warn("chat completion arrived with no pending submission")
		return nil
	}
	o.pending = false

	var reply twin.Message
	switch {
	case err != nil:
		o.logFailure(err)
		reply = twin.NewMessage(twin.RoleAssistant, FallbackReply, nil)
	case resp == nil:
		o.logFailure(&twin.Error{Description: "invalid chat response", Type: twin.ErrorTypePayload, Err: errors.New("empty response")})
		reply = twin.NewMessage(twin.RoleAssistant, FallbackReply, nil)
	default:
		reply = twin.NewMessage(twin.RoleAssistant, resp.Response, resp.Sources)
	}

	o.thread.Append(reply)
	return &reply
}

// Await runs the network phase for turn and completes it. The pending state is
// always cleared, even if the request panics.
func (o *Orchestrator) Await(ctx context.Context, turn *Turn) (reply *twin.Message) {
	var (
		resp *ChatResponse
		err  = errors.New("chat request did not complete")
	)
	defer func() {
		reply = o.Complete(resp, err)
		turn.Reply = reply
	}()

	resp, err = o.Request(ctx, turn.Request)
	return reply
}

// Submit runs a whole turn: Begin, the chat request, then Complete.
// The returned Turn carries both appended messages.
func (o *Orchestrator) Submit(ctx context.Context, rawInput string) (*Turn, error) {
	turn, err := o.Begin(rawInput)
	if err != nil {
		return nil, err
	}

	o.Await(ctx, turn)
	return turn, nil
}

func (o *Orchestrator) logFailure(err error) {
	entry := o.log.WithError(err)
	var tErr *twin.Error
	if errors.As(err, &tErr) {
		entry = entry.WithField("error_type", tErr.Type.String())
	}
	entry.Error("chat request failed")
}

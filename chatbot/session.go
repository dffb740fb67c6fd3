package chatbot

import "github.com/sirupsen/logrus"

// Backend is a backend that can both chat and report status
type Backend interface {
	ChatClient
	StatusClient
}

// Session is the state of one visitor's conversation. It starts with an empty
// thread and an unknown status and lives only as long as the process.
type Session struct {
	Thread       *Thread
	Orchestrator *Orchestrator
	Status       *StatusPoller
}

// NewSession creates a new Session talking to backend
func NewSession(backend Backend, log logrus.FieldLogger) *Session {
	thread := NewThread()
	return &Session{
		Thread:       thread,
		Orchestrator: NewOrchestrator(thread, backend, log.WithField("component", "orchestrator")),
		Status:       NewStatusPoller(backend, log.WithField("component", "status")),
	}
}

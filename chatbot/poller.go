package chatbot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/korylprince/twin-client/twin"
	"github.com/sirupsen/logrus"
)

// StatusPoller holds the latest status snapshot. Until a fetch succeeds the status is unknown.
type StatusPoller struct {
	mu      sync.RWMutex
	current *twin.StatusSnapshot
	fetched time.Time

	client StatusClient
	log    logrus.FieldLogger
}

// NewStatusPoller creates a new StatusPoller with an unknown status
func NewStatusPoller(client StatusClient, log logrus.FieldLogger) *StatusPoller {
	return &StatusPoller{client: client, log: log}
}

// Fetch asks the status backend once. On success the held snapshot is replaced;
// on failure it is left as it was and the error is logged and returned.
func (p *StatusPoller) Fetch(ctx context.Context) error {
	snapshot, err := p.client.Status(ctx)
	if err == nil && snapshot == nil {
		err = &twin.Error{Description: "invalid status response", Type: twin.ErrorTypePayload, Err: errors.New("empty snapshot")}
	}
	if err != nil {
		entry := p.log.WithError(err)
		var tErr *twin.Error
		if errors.As(err, &tErr) {
			entry = entry.WithField("error_type", tErr.Type.String())
		}
		entry.Warn("status fetch failed")
		return err
	}

	s := *snapshot
	p.mu.Lock()
	p.current = &s
	p.fetched = time.Now()
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"availability": s.Availability,
		"in_meeting":   s.InMeeting,
	}).Debug("status updated")

	return nil
}

// Current returns a copy of the held snapshot, or nil if no fetch has succeeded
func (p *StatusPoller) Current() *twin.StatusSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current == nil {
		return nil
	}
	s := *p.current
	return &s
}

// FetchedAt returns when the held snapshot was fetched, or the zero time
func (p *StatusPoller) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.fetched
}

// Run fetches once, then, if interval is positive, again every interval until ctx is done.
// Failures never stop the loop.
func (p *StatusPoller) Run(ctx context.Context, interval time.Duration) {
	_ = p.Fetch(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Fetch(ctx)
		}
	}
}

package ws

import (
	"encoding/json"
	"time"

	"github.com/justin-aj/tailor-resume-ai/internal/jobs"
)

type jobEvent struct {
	Type      string   `json:"type"`
	Job       jobs.Job `json:"job"`
	Timestamp string   `json:"timestamp"`
}

// JobNotifier adapts the hub to the jobs.Notifier interface.
type JobNotifier struct {
	hub *Hub
}

func NewJobNotifier(hub *Hub) *JobNotifier {
	return &JobNotifier{hub: hub}
}

func (n *JobNotifier) JobEvent(eventType string, j jobs.Job) {
	if n == nil || n.hub == nil {
		return
	}
	evt := jobEvent{
		Type:      eventType,
		Job:       j,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}

package room

import "sync"

// delivery is one event delivered to one session
type delivery struct {
	sessionID string
	event     *Event
}

// recordingNotifier keeps every delivered event in order
type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (n *recordingNotifier) Notify(sessionIDs []string, event *Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, id := range sessionIDs {
		n.deliveries = append(n.deliveries, delivery{sessionID: id, event: event})
	}
}

// eventsFor returns the events delivered to a session
func (n *recordingNotifier) eventsFor(sessionID string) []*Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	var events []*Event
	for _, d := range n.deliveries {
		if d.sessionID == sessionID {
			events = append(events, d.event)
		}
	}
	return events
}

// typesFor returns the event types delivered to a session
func (n *recordingNotifier) typesFor(sessionID string) []EventType {
	var types []EventType
	for _, e := range n.eventsFor(sessionID) {
		types = append(types, e.Type)
	}
	return types
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.deliveries = nil
}

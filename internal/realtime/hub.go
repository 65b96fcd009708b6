package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/yukikurage/staffdesk/internal/models"
)

// AdminAudience receives every task event.
const AdminAudience = "admin"

// Client is one connected listener. The network connection itself is
// managed by the websocket handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub fans task events out to connected clients, keyed by audience: the
// admin audience or an employee ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[Client]struct{}),
	}
}

// AudienceFor returns the audience a session listens on, or "" when the
// session cannot receive task events.
func AudienceFor(session *models.Session) string {
	switch {
	case session == nil:
		return ""
	case session.Role == models.RoleAdmin:
		return AdminAudience
	case session.Role == models.RoleEmployee && session.EmployeeID != nil:
		return *session.EmployeeID
	default:
		return ""
	}
}

// Register adds a client under an audience.
func (h *Hub) Register(audience string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[audience]; !ok {
		h.clients[audience] = make(map[Client]struct{})
	}
	h.clients[audience][client] = struct{}{}
}

// Unregister removes a client and drops the audience once it is empty.
func (h *Hub) Unregister(audience string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[audience]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, audience)
		}
	}
}

// Count returns the number of clients registered under audience.
func (h *Hub) Count(audience string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[audience])
}

// Broadcast sends a message to every client of an audience. Sends happen
// outside the lock so a slow client does not hold up the others.
func (h *Hub) Broadcast(audience string, message []byte) {
	h.mu.RLock()
	targets := make([]Client, 0, len(h.clients[audience]))
	for c := range h.clients[audience] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		// a failed write is cleaned up by the handler's read loop
		_ = c.Send(message)
	}
}

// CloseAll disconnects every client. Listeners were admitted under the
// session that was current when they connected, so they go when it changes.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var targets []Client
	for _, clients := range h.clients {
		for c := range clients {
			targets = append(targets, c)
		}
	}
	h.clients = make(map[string]map[Client]struct{})
	h.mu.Unlock()

	for _, c := range targets {
		c.Close()
	}
	if len(targets) > 0 {
		log.Printf("realtime: closed %d listeners after session change", len(targets))
	}
}

// PublishTaskEvent delivers event to admins, the assignee, and the previous
// assignee when the task was reassigned.
func (h *Hub) PublishTaskEvent(event models.TaskEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to encode %s: %v", event.Type, err)
		return
	}

	h.Broadcast(AdminAudience, message)
	if event.Task.AssignedTo != "" && event.Task.AssignedTo != AdminAudience {
		h.Broadcast(event.Task.AssignedTo, message)
	}
	if event.PreviousAssignee != "" && event.PreviousAssignee != event.Task.AssignedTo && event.PreviousAssignee != AdminAudience {
		h.Broadcast(event.PreviousAssignee, message)
	}
}

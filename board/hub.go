package board

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/motopaint/paintshop-app/models"
)

// Event types pushed to connected boards. DATA_CHANGED carries no
// payload; clients re-poll their REST views when they see it. The
// richer events ride the same hub for screens that want them.
const (
	EventDataChanged    = "data_changed"
	EventItemUpdate     = "item_update"
	EventOrderUpdate    = "order_update"
	EventNotification   = "employee_notification"
	EventDashboardStale = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub holds every connected board client (leaders, operators, admin
// dashboards) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastDataChanged is the minimum change signal: something in the
// order collection mutated, boards should refresh.
func BroadcastDataChanged() {
	broadcast(Message{Event: EventDataChanged})
}

// BroadcastItemUpdate pushes a single mutated piece.
func BroadcastItemUpdate(item models.OrderItem) {
	broadcast(Message{Event: EventItemUpdate, Data: item})
}

// BroadcastOrderUpdate pushes a whole order (creation, deletion,
// shipping stamp).
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastNotification mirrors a persisted notification so an online
// operator sees it without polling.
func BroadcastNotification(n models.Notification) {
	broadcast(Message{Event: EventNotification, Data: n})
}

// BroadcastDashboardStale tells admin dashboards their counters are
// stale.
func BroadcastDashboardStale() {
	broadcast(Message{Event: EventDashboardStale})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling board message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending board message to %s client: %v", role, err)
			continue
		}
	}
}

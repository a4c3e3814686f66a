package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"notebin-app/notebin/broker"
	"notebin-app/notebin/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// StreamServiceInterface defines the live moderation feed operations.
type StreamServiceInterface interface {
	Start(cfg config.Config)
	Stop()
	HandleConnection(c *gin.Context)
	BroadcastMessage(message []byte)
}

// StreamService pushes incoming report events to connected admin clients
// over websockets. Events arrive from the broker; without a broker
// connection clients only receive keepalive pings.
type StreamService struct {
	clients      map[*websocket.Conn]bool
	register     chan *websocket.Conn
	unregister   chan *websocket.Conn
	broadcast    chan []byte
	clientsMutex sync.RWMutex

	upgrader websocket.Upgrader
	consumer *broker.Consumer

	isRunning bool
	stopChan  chan struct{}
}

var StreamServiceInstance StreamServiceInterface

func NewStreamService() *StreamService {
	return &StreamService{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
		stopChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *StreamService) Start(cfg config.Config) {
	if s.isRunning {
		return
	}
	s.isRunning = true

	consumer, err := broker.InitConsumer(cfg, []string{broker.ReportCreatedSubject})
	if err != nil {
		log.Printf("Warning: report stream has no broker connection: %v", err)
	} else {
		s.consumer = consumer
		go s.forwardEvents(consumer.GetMessageChannel())
	}

	go s.run()
	log.Println("Report stream service started")
}

func (s *StreamService) Stop() {
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)

	if s.consumer != nil {
		s.consumer.Close()
	}

	s.clientsMutex.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.clientsMutex.Unlock()

	log.Println("Report stream service stopped")
}

func (s *StreamService) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case conn := <-s.register:
			s.clientsMutex.Lock()
			s.clients[conn] = true
			s.clientsMutex.Unlock()

		case conn := <-s.unregister:
			s.clientsMutex.Lock()
			if _, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				conn.Close()
			}
			s.clientsMutex.Unlock()

		case message := <-s.broadcast:
			s.writeToAll(websocket.TextMessage, message)

		case <-ticker.C:
			s.writeToAll(websocket.PingMessage, nil)

		case <-s.stopChan:
			return
		}
	}
}

func (s *StreamService) writeToAll(messageType int, payload []byte) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	for conn := range s.clients {
		if err := conn.WriteMessage(messageType, payload); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func (s *StreamService) forwardEvents(messages chan *nats.Msg) {
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			s.BroadcastMessage(msg.Data)
		case <-s.stopChan:
			return
		}
	}
}

// BroadcastMessage queues a message for delivery to every connected client.
func (s *StreamService) BroadcastMessage(message []byte) {
	select {
	case s.broadcast <- message:
	default:
		log.Println("Report stream broadcast buffer full, dropping message")
	}
}

// HandleConnection upgrades an authenticated admin request to a websocket
// and keeps it registered until the peer goes away.
func (s *StreamService) HandleConnection(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade report stream connection: %v", err)
		return
	}

	s.register <- conn

	// Reader loop only detects disconnects; clients do not send data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.unregister <- conn
				return
			}
		}
	}()
}

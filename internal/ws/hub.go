package ws

import (
	"context"
	"sync"
	"time"

	"chat_app/internal/domain"
	"chat_app/pkg/logger"
)

// Hub - реестр активных соединений и диспетчер рассылки. Все мутации
// (регистрация, снятие, публикация) сериализуются одним циклом Run,
// поэтому клиент никогда не увидит onlineCount, не соответствующий
// реальному состоянию реестра на момент рассылки.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	publish    chan *domain.Message
	mu         sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	log        logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan *domain.Message),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		log:        log,
	}
}

// Register добавляет аутентифицированное соединение и запускает его пампы.
// Блокируется до приема циклом Run.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister снимает соединение с учета. Повторный вызов безопасен.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// PublishMessage рассылает каноническое сообщение всем текущим соединениям.
// Вызовы одного отправителя доставляются в порядке вызова (FIFO через канал).
func (h *Hub) PublishMessage(message *domain.Message) {
	select {
	case h.publish <- message:
	case <-h.ctx.Done():
	}
}

// Count возвращает число отслеживаемых соединений (не уникальных пользователей:
// несколько вкладок одного пользователя считаются отдельно)
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run - главный цикл. Запускать в отдельной горутине.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

			h.log.Info("Client connected", "user_id", client.identity.ID, "conn_id", client.connID, "online", count)
			h.broadcastCount(count)

		case client := <-h.unregister:
			// close(send) строго под write-lock: отправители держат read-lock
			// и проверяют членство, поэтому записи в закрытый канал невозможны
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			if ok {
				h.log.Info("Client disconnected", "user_id", client.identity.ID, "conn_id", client.connID, "online", count)
				h.broadcastCount(count)
			}

		case message := <-h.publish:
			h.fanOut(message)
		}
	}
}

// fanOut доставляет сообщение каждому соединению не более одного раза.
// Соединение с переполненным буфером отбрасывается целиком: лучше потерять
// медленного клиента, чем блокировать цикл.
func (h *Hub) fanOut(message *domain.Message) {
	payload, err := encodeMessageEvent(message)
	if err != nil {
		h.log.Error("Failed to encode message event", "error", err, "message_id", message.ID)
		return
	}

	var stale []*Client
	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.dropClients(stale)
}

func (h *Hub) broadcastCount(count int) {
	payload, err := encodeCountEvent(count)
	if err != nil {
		h.log.Error("Failed to encode count event", "error", err)
		return
	}

	var stale []*Client
	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.dropClients(stale)
}

func (h *Hub) dropClients(stale []*Client) {
	if len(stale) == 0 {
		return
	}

	h.mu.Lock()
	var closed []*Client
	for _, client := range stale {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
			closed = append(closed, client)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	for _, client := range closed {
		h.log.Warn("Client dropped: send buffer full", "user_id", client.identity.ID, "conn_id", client.connID)
	}
	if len(closed) > 0 {
		h.broadcastCount(count)
	}
}

// sendCountTo отправляет текущий счетчик одному клиенту (ответ на legacy user-online)
func (h *Hub) sendCountTo(client *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	payload, err := encodeCountEvent(len(h.clients))
	if err != nil {
		return
	}

	select {
	case client.send <- payload:
	default:
	}
}

// sendTo доставляет кадр одному клиенту, если тот еще зарегистрирован
func (h *Hub) sendTo(client *Client, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
		close(client.send)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			_ = client.conn.Close()
		}
	}
}

// Shutdown останавливает цикл и дожидается завершения пампов
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}

// Package timeline реализует клиентскую ленту сообщений с оптимистичным
// рендером: отправленное сообщение сразу появляется как pending-запись и
// замещается канонической копией, когда сервер подтверждает отправку
// ответом или бродкастом.
package timeline

import (
	"sync"

	"chat_app/internal/domain"

	"github.com/google/uuid"
)

// Entry - один элемент локальной ленты. Pending-запись имеет временный
// LocalID и ключ корреляции; после подтверждения остается только
// каноническое сообщение.
type Entry struct {
	Message   domain.Message
	Pending   bool
	LocalID   string
	ClientKey string
}

// Timeline - локальное состояние ленты одного клиента. Потокобезопасен:
// его дергают и обработчик реалтайм-событий, и код отправки.
type Timeline struct {
	mu      sync.Mutex
	self    domain.Sender
	entries []Entry
	present map[int64]struct{}
}

func New(self domain.Sender) *Timeline {
	return &Timeline{
		self:    self,
		present: make(map[int64]struct{}),
	}
}

// AppendPendingText добавляет оптимистичную текстовую запись.
// Возвращаемый clientKey отправляется на сервер и возвращается в эхе,
// что дает точную корреляцию вместо эвристики по содержимому.
func (t *Timeline) AppendPendingText(text string) (localID, clientKey string) {
	localID = uuid.New().String()
	clientKey = uuid.New().String()

	t.mu.Lock()
	defer t.mu.Unlock()

	key := clientKey
	t.entries = append(t.entries, Entry{
		Message: domain.Message{
			SenderID:  t.self.ID,
			Text:      &text,
			ClientKey: &key,
			Sender:    t.self,
		},
		Pending:   true,
		LocalID:   localID,
		ClientKey: clientKey,
	})

	return localID, clientKey
}

// AppendPendingFile добавляет оптимистичную файловую запись
func (t *Timeline) AppendPendingFile(meta domain.FileMeta) (localID, clientKey string) {
	localID = uuid.New().String()
	clientKey = uuid.New().String()

	t.mu.Lock()
	defer t.mu.Unlock()

	key := clientKey
	t.entries = append(t.entries, Entry{
		Message: domain.Message{
			SenderID:  t.self.ID,
			FileURL:   &meta.URL,
			FileName:  &meta.Name,
			FileType:  &meta.Type,
			FileSize:  &meta.Size,
			ClientKey: &key,
			Sender:    t.self,
		},
		Pending:   true,
		LocalID:   localID,
		ClientKey: clientKey,
	})

	return localID, clientKey
}

// Confirm замещает pending-запись канонической копией на том же месте.
// Сначала точное совпадение по clientKey; для legacy-ответов без ключа -
// самая ранняя неподтвержденная запись того же автора с тем же содержимым.
// Повторное подтверждение (ответ + бродкаст) схлопывается по id.
func (t *Timeline) Confirm(message *domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.confirmLocked(message)
}

func (t *Timeline) confirmLocked(message *domain.Message) {
	if _, ok := t.present[message.ID]; ok {
		return
	}

	if idx := t.findPending(message); idx >= 0 {
		t.entries[idx] = Entry{Message: *message}
		t.present[message.ID] = struct{}{}
		return
	}

	// Подтверждение без pending-пары (например, другая вкладка) - просто добавляем
	t.entries = append(t.entries, Entry{Message: *message})
	t.present[message.ID] = struct{}{}
}

func (t *Timeline) findPending(message *domain.Message) int {
	if message.ClientKey != nil {
		for i, entry := range t.entries {
			if entry.Pending && entry.ClientKey == *message.ClientKey {
				return i
			}
		}
		return -1
	}

	for i := range t.entries {
		entry := &t.entries[i]
		if entry.Pending && entry.Message.SenderID == message.SenderID && entry.Message.SameContent(message) {
			return i
		}
	}
	return -1
}

// Fail убирает pending-запись из ленты: отправка не удалась,
// пользователь набирает и шлет заново
func (t *Timeline) Fail(localID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, entry := range t.entries {
		if entry.Pending && entry.LocalID == localID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// ApplyBroadcast обрабатывает входящий receive-message. Собственное эхо
// идет через сверку с pending-записями, чужие сообщения добавляются в
// конец с дедупликацией по каноническому id.
func (t *Timeline) ApplyBroadcast(message *domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if message.Sender.ID == t.self.ID {
		t.confirmLocked(message)
		return
	}

	if _, ok := t.present[message.ID]; ok {
		return
	}

	t.entries = append(t.entries, Entry{Message: *message})
	t.present[message.ID] = struct{}{}
}

// LoadHistory сливает полную историю в ленту: порядок истории
// авторитетен, уже известные id не дублируются, pending-записи
// сохраняются в конце
func (t *Timeline) LoadHistory(messages []*domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := make([]Entry, 0, len(messages)+len(t.entries))
	present := make(map[int64]struct{}, len(messages))

	for _, message := range messages {
		if _, ok := present[message.ID]; ok {
			continue
		}
		merged = append(merged, Entry{Message: *message})
		present[message.ID] = struct{}{}
	}

	for _, entry := range t.entries {
		if entry.Pending {
			merged = append(merged, entry)
			continue
		}
		if _, ok := present[entry.Message.ID]; !ok {
			merged = append(merged, entry)
			present[entry.Message.ID] = struct{}{}
		}
	}

	t.entries = merged
	t.present = present
}

// Entries возвращает копию текущей ленты
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make([]Entry, len(t.entries))
	copy(snapshot, t.entries)
	return snapshot
}

func (t *Timeline) PendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, entry := range t.entries {
		if entry.Pending {
			count++
		}
	}
	return count
}

package timeline

import (
	"testing"
	"time"

	"chat_app/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSender(username string) domain.Sender {
	return domain.Sender{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
}

func confirmed(id int64, sender domain.Sender, text string, clientKey *string) *domain.Message {
	return &domain.Message{
		ID:        id,
		SenderID:  sender.ID,
		Text:      &text,
		ClientKey: clientKey,
		CreatedAt: time.Now(),
		Sender:    sender,
	}
}

func TestAppendPendingText(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	localID, clientKey := tl.AppendPendingText("hello")
	req.NotEmpty(localID)
	req.NotEmpty(clientKey)

	entries := tl.Entries()
	req.Len(entries, 1)
	req.True(entries[0].Pending)
	req.Equal("hello", *entries[0].Message.Text)
	req.Equal(clientKey, entries[0].ClientKey)
	req.Equal(1, tl.PendingCount())
}

func TestConfirmByClientKey(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	_, clientKey := tl.AppendPendingText("hello")
	tl.Confirm(confirmed(42, self, "hello", &clientKey))

	entries := tl.Entries()
	req.Len(entries, 1)
	req.False(entries[0].Pending)
	req.Equal(int64(42), entries[0].Message.ID)
	req.Equal(0, tl.PendingCount())
}

// Повторное подтверждение приходит дважды: ответом на POST и бродкастом.
// Лента должна схлопнуть их в одну запись.
func TestConfirmTwiceCollapses(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	_, clientKey := tl.AppendPendingText("hello")
	canonical := confirmed(42, self, "hello", &clientKey)

	tl.Confirm(canonical)
	tl.ApplyBroadcast(canonical)

	entries := tl.Entries()
	req.Len(entries, 1)
	req.Equal(int64(42), entries[0].Message.ID)
}

// Legacy-ответ без clientKey сверяется по автору и содержимому:
// при двух одинаковых pending-записях берется самая ранняя.
func TestConfirmLegacyEarliestPending(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	first, _ := tl.AppendPendingText("hello")
	second, _ := tl.AppendPendingText("hello")

	tl.Confirm(confirmed(1, self, "hello", nil))

	entries := tl.Entries()
	req.Len(entries, 2)
	req.False(entries[0].Pending)
	req.Equal(int64(1), entries[0].Message.ID)
	req.True(entries[1].Pending)
	req.Equal(second, entries[1].LocalID)
	req.NotEqual(first, entries[1].LocalID)
}

func TestConfirmWithoutPendingAppends(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	// Сообщение из другой вкладки того же пользователя
	tl.Confirm(confirmed(7, self, "from another tab", nil))

	entries := tl.Entries()
	req.Len(entries, 1)
	req.False(entries[0].Pending)
	req.Equal(int64(7), entries[0].Message.ID)
}

func TestFailRemovesPending(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	localID, _ := tl.AppendPendingText("doomed")
	tl.AppendPendingText("survivor")

	tl.Fail(localID)

	entries := tl.Entries()
	req.Len(entries, 1)
	req.Equal("survivor", *entries[0].Message.Text)
	req.Equal(1, tl.PendingCount())
}

func TestApplyBroadcastForeignDeduplicates(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	other := newSender("bob")
	tl := New(self)

	message := confirmed(5, other, "hi alice", nil)
	tl.ApplyBroadcast(message)
	tl.ApplyBroadcast(message)

	entries := tl.Entries()
	req.Len(entries, 1)
	req.Equal(other.ID, entries[0].Message.Sender.ID)
}

func TestApplyBroadcastOwnEchoConfirms(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	_, clientKey := tl.AppendPendingText("hello")
	tl.ApplyBroadcast(confirmed(42, self, "hello", &clientKey))

	entries := tl.Entries()
	req.Len(entries, 1)
	req.False(entries[0].Pending)
	req.Equal(0, tl.PendingCount())
}

func TestLoadHistoryKeepsPendingAtEnd(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	other := newSender("bob")
	tl := New(self)

	tl.ApplyBroadcast(confirmed(2, other, "already seen", nil))
	tl.AppendPendingText("not yet sent")

	history := []*domain.Message{
		confirmed(1, other, "first", nil),
		confirmed(2, other, "already seen", nil),
		confirmed(3, self, "third", nil),
	}
	tl.LoadHistory(history)

	entries := tl.Entries()
	req.Len(entries, 4)
	req.Equal(int64(1), entries[0].Message.ID)
	req.Equal(int64(2), entries[1].Message.ID)
	req.Equal(int64(3), entries[2].Message.ID)
	req.True(entries[3].Pending)
	req.Equal("not yet sent", *entries[3].Message.Text)
}

func TestLoadHistoryKeepsConfirmedMissingFromHistory(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	// Подтвержденное бродкастом сообщение, которое история еще не отдает
	tl.ApplyBroadcast(confirmed(10, newSender("bob"), "fresh", nil))

	tl.LoadHistory([]*domain.Message{confirmed(1, self, "old", nil)})

	entries := tl.Entries()
	req.Len(entries, 2)
	req.Equal(int64(1), entries[0].Message.ID)
	req.Equal(int64(10), entries[1].Message.ID)
}

func TestFileMessageReconciliation(t *testing.T) {
	req := require.New(t)
	self := newSender("alice")
	tl := New(self)

	meta := domain.FileMeta{URL: "/uploads/messages/1-1.png", Name: "cat.png", Type: "image/png", Size: 1024}
	_, _ = tl.AppendPendingFile(meta)

	// Legacy-подтверждение файла: совпадение по имени файла
	name := meta.Name
	url := meta.URL
	tl.Confirm(&domain.Message{
		ID:       3,
		SenderID: self.ID,
		FileURL:  &url,
		FileName: &name,
		Sender:   self,
	})

	entries := tl.Entries()
	req.Len(entries, 1)
	req.False(entries[0].Pending)
	req.Equal(int64(3), entries[0].Message.ID)
}

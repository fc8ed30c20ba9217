package service

import (
	"context"
	"testing"
	"time"

	"chat_app/internal/domain"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	nextID   int64
	created  []*domain.Message
	failWith error
}

func (r *fakeMessageRepo) CreateMessage(_ context.Context, message *domain.Message) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.nextID++
	message.ID = r.nextID
	message.CreatedAt = time.Now()
	r.created = append(r.created, message)
	return nil
}

func (r *fakeMessageRepo) ListMessages(_ context.Context) ([]*domain.Message, error) {
	return r.created, nil
}

type fakePublisher struct {
	published []*domain.Message
}

func (p *fakePublisher) PublishMessage(message *domain.Message) {
	p.published = append(p.published, message)
}

type fakeAudit struct {
	events []string
}

func (a *fakeAudit) LogEvent(_ context.Context, _ *uuid.UUID, _ string, eventType string, _ map[string]interface{}) error {
	a.events = append(a.events, eventType)
	return nil
}

func newMessageServiceForTest(repo *fakeMessageRepo, publisher *fakePublisher) MessageService {
	return NewMessageService(repo, publisher, &fakeAudit{}, logger.New("error"))
}

func testSender() domain.Sender {
	return domain.Sender{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
}

func TestSubmitTextPersistsThenPublishes(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	publisher := &fakePublisher{}
	svc := newMessageServiceForTest(repo, publisher)

	sender := testSender()
	message, err := svc.SubmitText(context.Background(), sender, "  hello  ", "key-1")
	req.NoError(err)
	req.Equal(int64(1), message.ID)
	req.Equal("hello", *message.Text)
	req.Equal("key-1", *message.ClientKey)
	req.Equal(sender.ID, message.SenderID)

	req.Len(publisher.published, 1)
	// Рассылается та же каноническая копия с назначенным id
	req.Same(message, publisher.published[0])
}

func TestSubmitTextRejectsBlank(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	publisher := &fakePublisher{}
	svc := newMessageServiceForTest(repo, publisher)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.SubmitText(context.Background(), testSender(), text, "")
		req.ErrorIs(err, errors.ErrInvalidInput)
	}

	req.Empty(repo.created)
	req.Empty(publisher.published)
}

func TestSubmitTextNoPublishOnStorageFailure(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{failWith: errors.ErrStorageFailure}
	publisher := &fakePublisher{}
	svc := newMessageServiceForTest(repo, publisher)

	_, err := svc.SubmitText(context.Background(), testSender(), "hello", "")
	req.ErrorIs(err, errors.ErrStorageFailure)
	req.Empty(publisher.published)
}

func TestSubmitTextWithoutClientKey(t *testing.T) {
	req := require.New(t)
	svc := newMessageServiceForTest(&fakeMessageRepo{}, &fakePublisher{})

	message, err := svc.SubmitText(context.Background(), testSender(), "hello", "")
	req.NoError(err)
	req.Nil(message.ClientKey)
}

func TestSubmitFileLeavesTextNull(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	publisher := &fakePublisher{}
	svc := newMessageServiceForTest(repo, publisher)

	meta := domain.FileMeta{
		URL:  "/uploads/messages/1-1.png",
		Name: "cat.png",
		Type: "image/png",
		Size: 2048,
	}
	message, err := svc.SubmitFile(context.Background(), testSender(), meta, "key-2")
	req.NoError(err)
	req.Nil(message.Text)
	req.Equal(meta.URL, *message.FileURL)
	req.Equal(meta.Name, *message.FileName)
	req.Equal(meta.Type, *message.FileType)
	req.Equal(meta.Size, *message.FileSize)
	req.True(message.IsFile())
	req.Len(publisher.published, 1)
}

func TestSubmitFileRejectsIncompleteMeta(t *testing.T) {
	req := require.New(t)
	publisher := &fakePublisher{}
	svc := newMessageServiceForTest(&fakeMessageRepo{}, publisher)

	_, err := svc.SubmitFile(context.Background(), testSender(), domain.FileMeta{Name: "cat.png"}, "")
	req.ErrorIs(err, errors.ErrInvalidInput)

	_, err = svc.SubmitFile(context.Background(), testSender(), domain.FileMeta{URL: "/uploads/x"}, "")
	req.ErrorIs(err, errors.ErrInvalidInput)

	req.Empty(publisher.published)
}

func TestAuditBestEffort(t *testing.T) {
	req := require.New(t)
	repo := &fakeMessageRepo{}
	publisher := &fakePublisher{}
	audit := &fakeAudit{}
	svc := NewMessageService(repo, publisher, audit, logger.New("error"))

	_, err := svc.SubmitText(context.Background(), testSender(), "hello", "")
	req.NoError(err)
	req.Equal([]string{domain.EventTypeMessageSent}, audit.events)
}

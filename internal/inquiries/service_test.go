package inquiries

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globalpath/platform/internal/mailer"
	"github.com/globalpath/platform/pkg/models"
)

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (c *captureSender) SendEmail(to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, mailer.Message{To: to, Subject: subject, Body: body})
	return nil
}

func (c *captureSender) SendHTMLEmail(to, subject, htmlBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, mailer.Message{To: to, Subject: subject, Body: htmlBody, HTML: true})
	return nil
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *mockRepo) GetInquiryByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *mockRepo) ListInquiries(ctx context.Context, limit, offset int, status *models.InquiryStatus) ([]*models.Inquiry, int64, error) {
	args := m.Called(ctx, limit, offset, status)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) UpdateInquiryStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type recordingSideEffects struct {
	acked     []string
	forwarded []uuid.UUID
	published []uuid.UUID
}

func (r *recordingSideEffects) SendAcknowledgement(_ context.Context, inquiry *models.Inquiry) {
	r.acked = append(r.acked, inquiry.Email)
}

func (r *recordingSideEffects) Forward(_ context.Context, inquiry *models.Inquiry) {
	r.forwarded = append(r.forwarded, inquiry.ID)
}

func (r *recordingSideEffects) PublishInquiryReceived(_ context.Context, inquiry *models.Inquiry) {
	r.published = append(r.published, inquiry.ID)
}

func TestSubmitInquirySuccess(t *testing.T) {
	repo := new(mockRepo)
	effects := &recordingSideEffects{}
	svc := NewService(repo, effects, effects, effects)

	repo.On("CreateInquiry", mock.Anything, mock.MatchedBy(func(i *models.Inquiry) bool {
		return i.Status == models.InquiryNew && i.Email == "farhan@example.com"
	})).Return(nil)

	inquiry, err := svc.SubmitInquiry(context.Background(), &models.SubmitInquiryRequest{
		FullName: "Farhan Ahmed",
		Email:    "farhan@example.com",
		Subject:  "Masters in Canada",
		Message:  "What are the intake deadlines for fall 2027?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.InquiryNew, inquiry.Status)
	assert.Equal(t, []string{"farhan@example.com"}, effects.acked)
	assert.Equal(t, []uuid.UUID{inquiry.ID}, effects.forwarded)
	assert.Equal(t, []uuid.UUID{inquiry.ID}, effects.published)
	repo.AssertExpectations(t)
}

func TestSubmitInquiryRepoFailureSkipsSideEffects(t *testing.T) {
	repo := new(mockRepo)
	effects := &recordingSideEffects{}
	svc := NewService(repo, effects, effects, effects)

	repo.On("CreateInquiry", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := svc.SubmitInquiry(context.Background(), &models.SubmitInquiryRequest{
		FullName: "Farhan Ahmed",
		Email:    "farhan@example.com",
		Subject:  "Masters in Canada",
		Message:  "hello",
	})
	require.Error(t, err)
	assert.Empty(t, effects.acked)
	assert.Empty(t, effects.forwarded)
	assert.Empty(t, effects.published)
}

func TestMarkRespondedUpdatesAndReloads(t *testing.T) {
	repo := new(mockRepo)
	effects := &recordingSideEffects{}
	svc := NewService(repo, effects, effects, effects)

	id := uuid.New()
	repo.On("UpdateInquiryStatus", mock.Anything, id, models.InquiryResponded).Return(nil)
	repo.On("GetInquiryByID", mock.Anything, id).Return(&models.Inquiry{
		ID:     id,
		Status: models.InquiryResponded,
	}, nil)

	inquiry, err := svc.MarkResponded(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, models.InquiryResponded, inquiry.Status)
	repo.AssertExpectations(t)
}

func TestMarkRespondedQueuesReplyEmail(t *testing.T) {
	repo := new(mockRepo)
	effects := &recordingSideEffects{}
	svc := NewService(repo, effects, effects, effects)

	sender := &captureSender{}
	queue := mailer.NewQueue(sender, 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	svc.SetMailQueue(queue)

	id := uuid.New()
	repo.On("UpdateInquiryStatus", mock.Anything, id, models.InquiryResponded).Return(nil)
	repo.On("GetInquiryByID", mock.Anything, id).Return(&models.Inquiry{
		ID:     id,
		Email:  "farhan@example.com",
		Status: models.InquiryResponded,
	}, nil)

	_, err := svc.MarkResponded(context.Background(), id, &ReplyRequest{
		Subject: "Re: Masters in Canada",
		Message: "Here are the next steps.",
	})
	require.NoError(t, err)

	queue.Stop()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "farhan@example.com", sender.sent[0].To)
	assert.Equal(t, "Re: Masters in Canada", sender.sent[0].Subject)
}

func TestArchivePropagatesNotFound(t *testing.T) {
	repo := new(mockRepo)
	effects := &recordingSideEffects{}
	svc := NewService(repo, effects, effects, effects)

	id := uuid.New()
	repo.On("UpdateInquiryStatus", mock.Anything, id, models.InquiryArchived).
		Return(errors.New("inquiry not found"))

	_, err := svc.Archive(context.Background(), id)
	require.Error(t, err)
	repo.AssertNotCalled(t, "GetInquiryByID", mock.Anything, mock.Anything)
}

package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/gameshopnepal/backend/internal/email"
	"github.com/gameshopnepal/backend/internal/models"
)

// --- Mocks ---

// MockCampaignService implements services.ICampaignService
type MockCampaignService struct {
	mock.Mock
}

func (m *MockCampaignService) RecordCampaign(ctx context.Context, templateID, subject string, result email.BulkResult, totalRecipients int) (*models.Campaign, error) {
	args := m.Called(ctx, templateID, subject, result, totalRecipients)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignService) ListCampaigns(ctx context.Context, limit int64) ([]models.Campaign, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campaign), args.Error(1)
}

// MockSubscriberService implements services.ISubscriberService
type MockSubscriberService struct {
	mock.Mock
}

func (m *MockSubscriberService) Subscribe(ctx context.Context, emailAddr string) (*models.Subscriber, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscriber), args.Error(1)
}

func (m *MockSubscriberService) Unsubscribe(ctx context.Context, emailAddr string) error {
	args := m.Called(ctx, emailAddr)
	return args.Error(0)
}

func (m *MockSubscriberService) GetActiveEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockBulkSender implements email.BulkSender
type MockBulkSender struct {
	mock.Mock
}

func (m *MockBulkSender) SendBulk(ctx context.Context, recipients []string, subject, htmlBody string) email.BulkResult {
	args := m.Called(ctx, recipients, subject, htmlBody)
	return args.Get(0).(email.BulkResult)
}

// MockAsynqClient implements handlers.IAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockAssetStorage implements storage.IAssetStorage
type MockAssetStorage struct {
	mock.Mock
}

func (m *MockAssetStorage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, data, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

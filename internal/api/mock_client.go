package api

import (
	"context"
	"sync"

	"github.com/diogo/estate/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	ChatFunc       func(ctx context.Context, message string) (*ChatResult, error)
	DashboardVal   *models.DashboardStats
	DashboardErr   error
	PropertiesFunc func(filter models.PropertyFilter) (*models.PropertyPage, error)
	AnalyzeVal     *models.AnalysisResult
	AnalyzeErr     error
	CitiesVal      []string
	CitiesErr      error
	ExportVal      *models.ExportResult
	ExportErr      error
	BaseURLVal     string

	// Call recorders
	mu           sync.Mutex
	ChatMessages []string
	LastFilter   models.PropertyFilter
	LastParams   models.AnalysisParams
	LastFormat   string
	CloseCalled  bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) PostChat(ctx context.Context, message string) (*ChatResult, error) {
	m.mu.Lock()
	m.ChatMessages = append(m.ChatMessages, message)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, message)
	}
	return &ChatResult{StatusCode: 200, Body: []byte(`{"success":true,"response":"ok"}`)}, nil
}

// ChatCalls returns the messages posted so far
func (m *MockClient) ChatCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ChatMessages))
	copy(out, m.ChatMessages)
	return out
}

func (m *MockClient) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return m.DashboardVal, m.DashboardErr
}

func (m *MockClient) Properties(ctx context.Context, filter models.PropertyFilter) (*models.PropertyPage, error) {
	m.mu.Lock()
	m.LastFilter = filter
	m.mu.Unlock()

	if m.PropertiesFunc != nil {
		return m.PropertiesFunc(filter)
	}
	return &models.PropertyPage{Page: 1, PerPage: filter.PerPage}, nil
}

func (m *MockClient) Analyze(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error) {
	m.mu.Lock()
	m.LastParams = params
	m.mu.Unlock()
	return m.AnalyzeVal, m.AnalyzeErr
}

func (m *MockClient) Cities(ctx context.Context) ([]string, error) {
	return m.CitiesVal, m.CitiesErr
}

func (m *MockClient) Export(ctx context.Context, format string) (*models.ExportResult, error) {
	m.mu.Lock()
	m.LastFormat = format
	m.mu.Unlock()
	return m.ExportVal, m.ExportErr
}

func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultServerURL
	}
	return m.BaseURLVal
}

func (m *MockClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
}

package llm

import (
	"context"
	"fmt"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

// MockClient is an offline LLMClient for development and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GenerateReply(_ context.Context, history []domain.PromptTurn) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty history")
	}
	last := history[len(history)-1]
	return fmt.Sprintf("(mock) Anda bertanya: %q. Tidak ada laporan yang dimuat dalam mode ini.", last.Text), nil
}

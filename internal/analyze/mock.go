package analyze

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// MockProvider returns deterministic offline output, keyed on the request
// content so repeated runs are stable and distinct chapters differ.
type MockProvider struct {
	// Fail lists chapter titles whose requests should fail, for tests.
	Fail map[string]error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (string, error) {
	_ = ctx
	if err, ok := m.Fail[req.Chapter]; ok {
		return "", Classify(err)
	}
	sum := sha256.Sum256([]byte(req.System + "\x00" + req.Prompt))
	return fmt.Sprintf("Deterministic mock analysis of **%s** (%s). [%x]",
		req.Chapter, req.Book, sum[:4]), nil
}

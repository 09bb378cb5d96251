package mock

import "context"

// MockRecognizer is a test double for ai.Recognizer.
type MockRecognizer struct {
	// RecognizeTextFunc is called by RecognizeText if set.
	RecognizeTextFunc func(ctx context.Context, data []byte) (string, float64, error)

	callCount int
}

// NewMockRecognizer creates a mock recognizer with default behavior.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// RecognizeText returns an empty result with full confidence by default.
func (m *MockRecognizer) RecognizeText(ctx context.Context, data []byte) (string, float64, error) {
	m.callCount++

	if m.RecognizeTextFunc != nil {
		return m.RecognizeTextFunc(ctx, data)
	}

	return "", 100.0, nil
}

// CallCount returns the number of times RecognizeText was called.
func (m *MockRecognizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockRecognizer) Reset() {
	m.callCount = 0
	m.RecognizeTextFunc = nil
}

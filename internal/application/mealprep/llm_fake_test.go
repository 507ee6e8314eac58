package mealprep

import (
	"context"
	"errors"
)

// fakeLLM is a hand-rolled outbound.LLMService test double, matching the
// teacher's struct-literal fixture style rather than a generated mock.
type fakeLLM struct {
	responses []string
	calls     int
	err       error
	healthErr error
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("fakeLLM: no more responses queued")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeLLM) ChatCompletionWithImage(ctx context.Context, system, user, imageBase64 string, temperature float64, maxTokens int) (string, error) {
	return f.ChatCompletion(ctx, system, user, temperature, maxTokens)
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error {
	return f.healthErr
}

// fakeIDGenerator yields deterministic, incrementing IDs for assertions.
type fakeIDGenerator struct {
	n int
}

func (f *fakeIDGenerator) NewUUID() string {
	f.n++
	return "id-" + itoa(f.n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

package httpserver

import (
	"context"
	"time"
)

type memViews struct {
	data map[string][]byte
}

func newMemViews() *memViews {
	return &memViews{data: make(map[string][]byte)}
}

func (m *memViews) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memViews) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

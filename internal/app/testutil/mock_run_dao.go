package testutil

import (
	"sync"

	"meeting-whisper/internal/app/model"
)

// MockRunDAO is an in-memory implementation of repository.RunDAO.
type MockRunDAO struct {
	mu sync.Mutex

	Runs        []model.Run
	RecordError error
	CloseError  error
	Closed      bool
}

func NewMockRunDAO() *MockRunDAO {
	return &MockRunDAO{}
}

func (m *MockRunDAO) WithRecordError(err error) *MockRunDAO {
	m.RecordError = err
	return m
}

func (m *MockRunDAO) WithCloseError(err error) *MockRunDAO {
	m.CloseError = err
	return m
}

func (m *MockRunDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseError
}

func (m *MockRunDAO) RecordRun(run model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordError != nil {
		return m.RecordError
	}
	m.Runs = append(m.Runs, run)
	return nil
}

func (m *MockRunDAO) GetAllBySource(source string) ([]model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var runs []model.Run
	for _, r := range m.Runs {
		if r.Source == source {
			runs = append(runs, r)
		}
	}
	return runs, nil
}

package files

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/campus-resource-service/pkg/util"
)

// MemoryStore keeps uploads in memory; used in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	Deleted []string
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, name string, content io.Reader) (*Stored, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.objects[id] = data
	s.mu.Unlock()
	return &Stored{FileID: id, URL: fmt.Sprintf("memory://%s/%s", id, name)}, nil
}

func (s *MemoryStore) Delete(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[fileID]; !ok {
		return apperrors.NewNotFound("file", nil)
	}
	delete(s.objects, fileID)
	s.Deleted = append(s.Deleted, fileID)
	return nil
}

func (s *MemoryStore) DownloadLink(_ context.Context, fileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[fileID]; !ok {
		return "", apperrors.NewNotFound("file", nil)
	}
	return fmt.Sprintf("memory://%s", fileID), nil
}

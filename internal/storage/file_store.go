package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/deusflow/aibrief/internal/news"
)

// FileStore keeps a processed batch as an indented JSON document on disk.
type FileStore struct {
	filePath string
	mu       sync.RWMutex
}

// NewFileStore creates a store backed by filePath
func NewFileStore(filePath string) *FileStore {
	return &FileStore{filePath: filePath}
}

// Load reads the stored batch. A missing or empty file is an empty batch.
func (fs *FileStore) Load() ([]news.ProcessedArticle, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return []news.ProcessedArticle{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []news.ProcessedArticle{}, nil
	}

	var articles []news.ProcessedArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}
	if articles == nil {
		articles = []news.ProcessedArticle{}
	}
	return articles, nil
}

// Save replaces the stored batch. The file is written next to the target and
// renamed into place so readers never see a partial document.
func (fs *FileStore) Save(articles []news.ProcessedArticle) error {
	if articles == nil {
		articles = []news.ProcessedArticle{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir := filepath.Dir(fs.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write batch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write batch file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set batch file mode: %w", err)
	}
	if err := os.Rename(tmpName, fs.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace batch file: %w", err)
	}

	return nil
}

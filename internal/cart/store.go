package cart

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// カートの保存先。ブラウザのlocalStorage相当を差し替え可能にする
type Store interface {
	// 保存データが無ければ (nil, nil)
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStore はJSONファイル1本にカートを保存する
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileStore) Save(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}

// MemoryStore はテスト用のインメモリ保存
type MemoryStore struct {
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]byte, error) {
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemoryStore) Save(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

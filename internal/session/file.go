package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// CLISessionID 命令行只保存一个会话
const CLISessionID = "cli"

// DefaultFilePath ~/.cario/session.yaml
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cario", "session.yaml")
	}
	return filepath.Join(home, ".cario", "session.yaml")
}

type fileData struct {
	Sessions map[string]Session `yaml:"sessions"`
}

// FileStore 把会话写入 YAML 文件，供命令行在多次调用之间保持登录
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("创建会话目录失败: %w", err)
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Path 会话文件路径
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() (fileData, error) {
	data := fileData{Sessions: map[string]Session{}}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("读取会话文件失败: %w", err)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fileData{Sessions: map[string]Session{}}, nil
	}
	if data.Sessions == nil {
		data.Sessions = map[string]Session{}
	}
	return data, nil
}

func (f *FileStore) store(data fileData) error {
	raw, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("写入会话文件失败: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Get(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return nil, err
	}
	s, ok := data.Sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(f.now()) {
		delete(data.Sessions, id)
		if err := f.store(data); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &s, nil
}

func (f *FileStore) Save(_ context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data.Sessions[s.ID] = *s
	return f.store(data)
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data.Sessions[id]; !ok {
		return nil
	}
	delete(data.Sessions, id)
	return f.store(data)
}

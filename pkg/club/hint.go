package club

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// HintStore хранит «последний известный профиль» между запусками.
// Подсказка используется только для оптимистичного состояния на старте
// и никогда не подтверждает аутентификацию сама по себе. Сбрасывается
// при выходе и при невосстановимом 401.
type HintStore interface {
	Load() (*User, error)
	Save(user *User) error
	Clear() error
}

// FileHintStore хранит подсказку в JSON-файле.
type FileHintStore struct {
	path string
	mu   sync.Mutex
}

// NewFileHintStore создает хранилище подсказки по указанному пути.
func NewFileHintStore(path string) *FileHintStore {
	return &FileHintStore{path: path}
}

// Load читает подсказку. Отсутствие файла — не ошибка, возвращается nil.
func (s *FileHintStore) Load() (*User, error) {
	const op = "club.FileHintStore.Load"
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		// Повреждённая подсказка равносильна её отсутствию.
		return nil, nil
	}
	return &user, nil
}

// Save записывает подсказку атомарно через временный файл.
func (s *FileHintStore) Save(user *User) error {
	const op = "club.FileHintStore.Save"
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear удаляет подсказку.
func (s *FileHintStore) Clear() error {
	const op = "club.FileHintStore.Clear"
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MemoryHintStore — хранилище подсказки в памяти, для тестов.
type MemoryHintStore struct {
	mu   sync.Mutex
	user *User
}

// NewMemoryHintStore создает пустое хранилище в памяти.
func NewMemoryHintStore() *MemoryHintStore {
	return &MemoryHintStore{}
}

// Load возвращает сохранённую подсказку или nil.
func (s *MemoryHintStore) Load() (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	copied := *s.user
	return &copied, nil
}

// Save сохраняет копию пользователя.
func (s *MemoryHintStore) Save(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.user = &copied
	return nil
}

// Clear удаляет подсказку.
func (s *MemoryHintStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

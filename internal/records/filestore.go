package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	usersFile      = "users.json"
	businessesFile = "businesses.json"
)

// FileStore keeps one JSON array per entity type and rewrites the whole file
// on every mutation. A single mutex spans each read-modify-write cycle, so
// check-then-create sequences are serialized within the process. It is a
// development fallback, not a database: cross-process writers are not
// coordinated.
type FileStore struct {
	mu             sync.Mutex
	usersPath      string
	businessesPath string
}

// NewFileStore creates the data directory and empty record files on first use.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		usersPath:      filepath.Join(dir, usersFile),
		businessesPath: filepath.Join(dir, businessesFile),
	}
	for _, path := range []string{s.usersPath, s.businessesPath} {
		if err := ensureFile(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("init %s: %w", path, err)
	}
	return nil
}

// FindUserByEmail scans for the first user with the given email.
func (s *FileStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readAll[User](ctx, s.usersPath)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// FindUserByID scans for the user with the given id.
func (s *FileStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readAll[User](ctx, s.usersPath)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// FindBusinessByID scans for the business with the given id.
func (s *FileStore) FindBusinessByID(ctx context.Context, id string) (*Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	businesses, err := readAll[Business](ctx, s.businessesPath)
	if err != nil {
		return nil, err
	}
	for i := range businesses {
		if businesses[i].ID == id {
			b := businesses[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser appends the user record. Uniqueness is checked here as well as
// by the caller: both run under the same mutex, so the check closest to the
// write is the one that holds.
func (s *FileStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readAll[User](ctx, s.usersPath)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == user.Email {
			return nil, fmt.Errorf("user %s: %w", user.Email, errDuplicate)
		}
	}
	users = append(users, *user)
	if err := writeAll(s.usersPath, users); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateBusiness appends the business record.
func (s *FileStore) CreateBusiness(ctx context.Context, business *Business) (*Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	businesses, err := readAll[Business](ctx, s.businessesPath)
	if err != nil {
		return nil, err
	}
	businesses = append(businesses, *business)
	if err := writeAll(s.businessesPath, businesses); err != nil {
		return nil, err
	}
	return business, nil
}

// UpdateLastLogin locates the user by id and rewrites the collection with
// the new timestamp.
func (s *FileStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := readAll[User](ctx, s.usersPath)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			ts := at
			users[i].LastLogin = &ts
			return writeAll(s.usersPath, users)
		}
	}
	return ErrNotFound
}

var errDuplicate = errors.New("duplicate record")

// IsDuplicate reports whether err came from the store's own uniqueness check.
func IsDuplicate(err error) bool {
	return errors.Is(err, errDuplicate)
}

func readAll[T any](ctx context.Context, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

func writeAll[T any](path string, items []T) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

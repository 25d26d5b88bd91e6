package app_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"accountkeeper/internal/account/domain/entities"
	"accountkeeper/internal/account/domain/services"
	svc "accountkeeper/internal/account/ports/services"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByName(ctx context.Context, name string) (*entities.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendNewPassword(ctx context.Context, plaintext string, account *entities.Account) error {
	args := m.Called(ctx, plaintext, account)
	return args.Error(0)
}

// memorySessionContext - сессия в памяти, аналог сессии одного клиента.
type memorySessionContext struct {
	mu      sync.Mutex
	session *memorySession
	err     error
}

func (c *memorySessionContext) CurrentSession(_ context.Context, create bool) (svc.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	if c.session == nil {
		if !create {
			return nil, services.ErrNoSession
		}
		c.session = &memorySession{values: map[string]*entities.Account{}}
	}
	return c.session, nil
}

func (c *memorySessionContext) account() *entities.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.values[services.SessionAccountKey]
}

type memorySession struct {
	values map[string]*entities.Account
	setErr error
}

func (s *memorySession) Get(_ context.Context, key string) (*entities.Account, error) {
	return s.values[key], nil
}

func (s *memorySession) Set(_ context.Context, key string, account *entities.Account) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = account
	return nil
}

func sessionWith(account *entities.Account) *memorySessionContext {
	return &memorySessionContext{
		session: &memorySession{values: map[string]*entities.Account{services.SessionAccountKey: account}},
	}
}

// memoryRepository - хранилище учетных записей в памяти с уникальностью имени.
type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]entities.Account
	nextID   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{accounts: map[string]entities.Account{}}
}

func (r *memoryRepository) FindByName(_ context.Context, name string) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Name == name {
			found := a
			return &found, nil
		}
	}
	return nil, entities.ErrAccountNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, entities.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memoryRepository) Save(_ context.Context, account *entities.Account) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.accounts {
		if a.Name == account.Name && id != account.ID {
			return nil, entities.ErrAccountExists
		}
	}
	saved := *account
	if saved.ID == "" {
		r.nextID++
		saved.ID = "id-" + strconv.Itoa(r.nextID)
	} else if _, ok := r.accounts[saved.ID]; !ok {
		return nil, entities.ErrAccountNotFound
	}
	r.accounts[saved.ID] = saved
	return &saved, nil
}

func (r *memoryRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return entities.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *memoryRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

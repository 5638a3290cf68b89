package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vincebiwott/safari-park-maintenance-v/models"
)

// MockAuthProvider is an in-memory AuthProvider for tests. Identity ids are
// assigned sequentially as "user-1", "user-2", ...
type MockAuthProvider struct {
	accounts  map[string]mockAccount
	usedIDs   map[string]bool
	nextID    int
	SignUpErr error
	SignInErr error
	// SignUpCalls counts every SignUp attempt, failed ones included
	SignUpCalls int
	mu          sync.Mutex
}

type mockAccount struct {
	identity Identity
	password string
}

// NewMockAuthProvider creates a provider with no accounts
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{accounts: make(map[string]mockAccount), usedIDs: make(map[string]bool)}
}

// AddAccount registers credentials directly and returns the identity
func (m *MockAuthProvider) AddAccount(id, email, password string) Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity := Identity{ID: id, Email: email}
	m.accounts[email] = mockAccount{identity: identity, password: password}
	m.usedIDs[id] = true
	return identity
}

func (m *MockAuthProvider) SignUp(ctx context.Context, creds Credentials) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SignUpCalls++
	if m.SignUpErr != nil {
		return nil, m.SignUpErr
	}
	if _, exists := m.accounts[creds.Email]; exists {
		return nil, &ProviderError{Op: "signup", StatusCode: 422, Code: "user_already_exists", Message: "User already registered"}
	}

	identity := Identity{ID: m.newID(), Email: creds.Email}
	m.accounts[creds.Email] = mockAccount{identity: identity, password: creds.Password}
	m.usedIDs[identity.ID] = true
	return &identity, nil
}

// newID returns the next sequential id not already taken by AddAccount.
// Callers hold m.mu.
func (m *MockAuthProvider) newID() string {
	for {
		m.nextID++
		id := fmt.Sprintf("user-%d", m.nextID)
		if !m.usedIDs[id] {
			return id
		}
	}
}

func (m *MockAuthProvider) SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	account, exists := m.accounts[creds.Email]
	if !exists || account.password != creds.Password {
		return nil, &ProviderError{Op: "signin", StatusCode: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}
	}

	return &Session{
		AccessToken: "token-" + account.identity.ID,
		ExpiresIn:   time.Hour,
		User:        account.identity,
	}, nil
}

// MockProfileStore is an in-memory ProfileStore for tests
type MockProfileStore struct {
	profiles  map[string]*models.Profile
	order     []string
	InsertErr error
	FindErr   error
	ListErr   error
	mu        sync.RWMutex
}

// NewMockProfileStore creates an empty store
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{profiles: make(map[string]*models.Profile)}
}

func (m *MockProfileStore) Insert(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertErr != nil {
		return m.InsertErr
	}
	if _, exists := m.profiles[profile.ID]; exists {
		return &ProviderError{Op: "insert", StatusCode: 409, Code: "23505", Message: "duplicate key value violates unique constraint \"profiles_pkey\""}
	}
	stored := *profile
	m.profiles[profile.ID] = &stored
	m.order = append(m.order, profile.ID)
	return nil
}

func (m *MockProfileStore) FindRole(ctx context.Context, id string) (*RoleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FindErr != nil {
		return nil, m.FindErr
	}
	profile, exists := m.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return &RoleRecord{Role: profile.Role, Approved: profile.Approved}, nil
}

func (m *MockProfileStore) List(ctx context.Context) ([]models.ProfileSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	summaries := make([]models.ProfileSummary, 0, len(m.order))
	for _, id := range m.order {
		p := m.profiles[id]
		summaries = append(summaries, models.ProfileSummary{ID: p.ID, Role: p.Role, Nickname: p.Nickname})
	}
	return summaries, nil
}

// Get returns a copy of a stored profile (for test assertions)
func (m *MockProfileStore) Get(id string) (*models.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Count returns how many profiles are stored
func (m *MockProfileStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}

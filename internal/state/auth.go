// Package state holds the client-side auth and cart state containers.
// Both are created explicitly at start-up and torn down by their owner.
package state

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront/internal/client"
	"storefront/internal/models"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// SessionStore persists the session between runs. session.Cache satisfies it.
type SessionStore interface {
	SaveToken(token string)
	GetToken() string
	SaveUser(profile models.UserProfile)
	GetUser() *models.UserProfile
	ClearAuthData()
}

// AuthAPI is the part of the API client the auth state calls.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
	Register(ctx context.Context, req client.RegisterRequest) (*models.User, error)
}

// Listener is told about every sign-in and sign-out. profile is nil on sign-out.
type Listener func(profile *models.UserProfile)

// Auth tracks who is signed in.
type Auth struct {
	cache SessionStore
	api   AuthAPI
	now   func() time.Time

	mu        sync.Mutex
	profile   *models.UserProfile
	loading   bool
	listeners map[int]Listener
	nextID    int
}

func NewAuth(cache SessionStore, api AuthAPI) *Auth {
	return &Auth{
		cache:     cache,
		api:       api,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Restore signs in from the stored session when both a token and a profile
// are present and the profile has not expired. An expired session is cleared.
func (a *Auth) Restore() bool {
	a.setLoading(true)
	defer a.setLoading(false)

	token := a.cache.GetToken()
	profile := a.cache.GetUser()
	if token == "" || profile == nil {
		return false
	}
	if profile.Expired(a.now()) {
		a.cache.ClearAuthData()
		return false
	}
	a.SignIn(*profile)
	return true
}

// Login exchanges credentials for a token, resolves the profile and signs in.
// Nothing is left in the session cache when any step fails.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	a.setLoading(true)
	defer a.setLoading(false)

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.cache.SaveToken(token)

	profile, err := a.api.Profile(ctx)
	if err != nil {
		a.cache.ClearAuthData()
		return err
	}
	a.cache.SaveUser(*profile)
	a.SignIn(*profile)
	return nil
}

// Register creates an account. It does not sign in.
func (a *Auth) Register(ctx context.Context, req client.RegisterRequest) (*models.User, error) {
	a.setLoading(true)
	defer a.setLoading(false)
	return a.api.Register(ctx, req)
}

// SignIn marks profile as the signed-in user and notifies listeners.
func (a *Auth) SignIn(profile models.UserProfile) {
	a.mu.Lock()
	a.profile = &profile
	a.mu.Unlock()
	a.notify(&profile)
}

// SignOut clears the stored session and notifies listeners.
func (a *Auth) SignOut() {
	a.cache.ClearAuthData()
	a.mu.Lock()
	a.profile = nil
	a.mu.Unlock()
	a.notify(nil)
}

func (a *Auth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile != nil
}

// Profile returns a copy of the signed-in profile, or nil.
func (a *Auth) Profile() *models.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.profile == nil {
		return nil
	}
	p := *a.profile
	return &p
}

func (a *Auth) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Subscribe registers fn and returns the function that removes it.
func (a *Auth) Subscribe(fn Listener) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

func (a *Auth) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

// notify runs listeners synchronously, in subscription order, without holding the lock.
func (a *Auth) notify(profile *models.UserProfile) {
	a.mu.Lock()
	ids := make([]int, 0, len(a.listeners))
	for id := range a.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, a.listeners[id])
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		if profile == nil {
			fn(nil)
			continue
		}
		p := *profile
		fn(&p)
	}
}

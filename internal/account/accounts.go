package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"webdojo/internal/state"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Accounts struct {
	kv   state.KV
	cost int
	now  func() time.Time
}

func NewAccounts(kv state.KV) *Accounts {
	return &Accounts{kv: kv, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost sets the bcrypt cost used for new passwords.
func (a *Accounts) WithCost(cost int) *Accounts {
	a.cost = cost
	return a
}

// Register creates a user and signs it in.
func (a *Accounts) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return User{}, ErrMissingFields
	}
	users, err := a.users(ctx)
	if err != nil {
		return User{}, err
	}
	if _, ok := findByEmail(users, email); ok {
		return User{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: a.now().UTC().Format(time.RFC3339),
	}
	users = append(users, u)
	if err := state.SetJSON(ctx, a.kv, state.KeyUsers, users); err != nil {
		return User{}, fmt.Errorf("save users: %w", err)
	}
	if err := a.setCurrent(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (a *Accounts) SignIn(ctx context.Context, email, password string) (User, error) {
	users, err := a.users(ctx)
	if err != nil {
		return User{}, err
	}
	u, ok := findByEmail(users, strings.TrimSpace(email))
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("check password: %w", err)
	}
	if err := a.setCurrent(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (a *Accounts) SignOut(ctx context.Context) error {
	if err := a.kv.Delete(ctx, state.KeyCurrentUser); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Current returns the signed-in user, if any.
func (a *Accounts) Current(ctx context.Context) (User, bool, error) {
	var u User
	ok, err := state.GetJSON(ctx, a.kv, state.KeyCurrentUser, &u)
	if err != nil {
		return User{}, false, fmt.Errorf("load current user: %w", err)
	}
	return u, ok, nil
}

func (a *Accounts) users(ctx context.Context) ([]User, error) {
	users := []User{}
	if _, err := state.GetJSON(ctx, a.kv, state.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (a *Accounts) setCurrent(ctx context.Context, u User) error {
	if err := state.SetJSON(ctx, a.kv, state.KeyCurrentUser, u); err != nil {
		return fmt.Errorf("save current user: %w", err)
	}
	return nil
}

func findByEmail(users []User, email string) (User, bool) {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"kerbside/models"

	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	users map[string]*models.User // by email
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*models.User)}
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) InsertUser(_ context.Context, user models.User) error {
	f.users[user.Email] = &user
	return nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	for _, u := range f.users {
		if u.UserID == userID {
			u.LastLogin = at
		}
	}
	return nil
}

func addUser(t *testing.T, store *fakeStore, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	store.users[email] = &models.User{
		UserID:       "u1234567890",
		Username:     "tester",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	store := newFakeStore()
	_, err := Login(context.Background(), store, "nobody@example.com", "pw")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	addUser(t, store, "a@example.com", "right", models.RoleUser)

	_, err := Login(context.Background(), store, "a@example.com", "wrong")
	if !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("want ErrIncorrectPassword, got %v", err)
	}
}

func TestLoginSuccessReturnsRole(t *testing.T) {
	store := newFakeStore()
	addUser(t, store, "admin@example.com", "secret", models.RoleAdmin)

	user, err := Login(context.Background(), store, "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", user.Role)
	}
}

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP(6)
	if len(otp) != 6 {
		t.Fatalf("length = %d, want 6", len(otp))
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Fatalf("OTP contains non-digit %q", c)
		}
	}
}

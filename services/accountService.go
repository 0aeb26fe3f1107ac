package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Kapeta-16/DevOpsPraktikum/models"
	"github.com/Kapeta-16/DevOpsPraktikum/store"
)

const bcryptCost = 14

type AccountService struct {
	store store.Gateway
}

func NewAccountService(gw store.Gateway) *AccountService {
	return &AccountService{store: gw}
}

// Signup creates the user document keyed by username. Passwords are stored as
// bcrypt hashes; the wire contract is unchanged from the plaintext scheme.
func (s *AccountService) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingData
	}

	users := s.store.Collection(usersCollection)
	_, err := users.Get(ctx, username)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, store.ErrNoDocument) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, Password: string(hash), Admin: false}
	return users.Set(ctx, username, user)
}

// Login verifies the credentials and returns the stored user. No session or
// token is issued; callers keep the username client-side.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingData
	}

	doc, err := s.store.Collection(usersCollection).Get(ctx, username)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := doc.Decode(&user); err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return &user, nil
}

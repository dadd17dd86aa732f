package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valeriaulyamaeva/smart-reminder/models"
	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

// CreateUser хеширует пароль и сохраняет пользователя. Имя пользователя уникально
// без учёта регистра.
func (s *Store) CreateUser(ctx context.Context, payload models.InsertUser) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, payload.Username) {
			return models.User{}, fmt.Errorf("user %q: %w", payload.Username, ErrUsernameTaken)
		}
	}

	user := models.User{
		ID:       s.nextUserID,
		Username: payload.Username,
		Password: string(hashedPassword),
	}
	s.nextUserID++
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
}

// CheckUserPassword returns the user when the password matches its stored hash.
func (s *Store) CheckUserPassword(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.User{}, fmt.Errorf("wrong password for %q", username)
		}
		return models.User{}, fmt.Errorf("compare password: %w", err)
	}
	return user, nil
}

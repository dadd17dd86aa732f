package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/models"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	s := database.NewStore(database.WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	user, err := s.CreateUser(ctx, models.InsertUser{Username: "vicky", Password: "987654"})
	if err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	if user.ID != 1 || user.Password == "987654" {
		t.Errorf("unexpected user: %+v", user)
	}

	got, err := s.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения пользователя по ID: %v", err)
	}
	if got.Username != "vicky" {
		t.Errorf("данные пользователя не совпадают: получили %+v, хотели %+v", got, user)
	}

	if _, err := s.CreateUser(ctx, models.InsertUser{Username: "Vicky", Password: "other-pass"}); !errors.Is(err, database.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestCheckUserPassword(t *testing.T) {
	s := database.NewStore(database.WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, models.InsertUser{Username: "emily", Password: "secure-pass"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CheckUserPassword(ctx, "emily", "secure-pass"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if _, err := s.CheckUserPassword(ctx, "emily", "wrong"); err == nil {
		t.Errorf("wrong password accepted")
	}
	if _, err := s.CheckUserPassword(ctx, "nobody", "x"); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.GetUser(ctx, 99); !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

// Command createmanager seeds a manager account.
//
//	createmanager [name] [email] [password] [department] [employee-id]
//
// Missing arguments fall back to the defaults below.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

var defaults = []string{"Manager", "manager@example.com", "manager123", "Management", "MGR001"}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(os.Args[1:]); err != nil {
		slog.Error("create manager failed", "error", err)
		os.Exit(1)
	}
}

func argsOrDefaults(args []string) auth.CreateManagerRequest {
	values := make([]string, len(defaults))
	copy(values, defaults)
	for i := 0; i < len(args) && i < len(values); i++ {
		values[i] = args[i]
	}
	return auth.CreateManagerRequest{
		Name:       values[0],
		Email:      values[1],
		Password:   values[2],
		Department: values[3],
		EmployeeID: values[4],
	}
}

func run(args []string) error {
	req := argsOrDefaults(args)
	if err := req.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	manager, err := createManager(ctx, postgresql.NewUserRepository(db), req)
	if err != nil {
		return err
	}

	slog.Info("manager created",
		"id", manager.ID,
		"email", manager.Email,
		"employee_id", manager.EmployeeID,
		"department", manager.Department,
	)
	return nil
}

func createManager(ctx context.Context, users user.UserRepository, req auth.CreateManagerRequest) (user.User, error) {
	exists, err := users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return user.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return user.User{}, auth.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	passwordHash := string(hashed)

	manager, err := users.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		Role:         user.RoleManager,
		EmployeeID:   req.EmployeeID,
		Department:   req.Department,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.User{}, auth.ErrEmailAlreadyExists
		}
		return user.User{}, fmt.Errorf("create manager: %w", err)
	}
	return manager, nil
}

// Command seed provisions demo users with accounts and transfer codes.
//
// Usage:
//
//	seed -email alice@bank.test -password secret -balance 100.00 -codes 5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"bank/internal/config"
	"bank/internal/logging"
	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/services/authcode"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password")
	name := flag.String("name", "Demo Client", "display name")
	balance := flag.String("balance", "0", "opening balance")
	codes := flag.Int("codes", 5, "number of transfer codes to issue")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("-email and -password are required")
	}
	opening, err := decimal.NewFromString(*balance)
	if err != nil || opening.IsNegative() {
		log.Fatalf("invalid opening balance %q", *balance)
	}

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	zlog, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()
	db, err := repositories.OpenDB(ctx, cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer func() { _ = repositories.Close(db) }()

	users := repositories.NewUserRepository(db)
	accounts := repositories.NewAccountRepository(db)
	issuer := authcode.NewService(repositories.NewTransactionCodeRepository(db), authcode.Config{TTL: cfg.TransferCodeTTL}, zlog)

	user, err := users.GetByEmail(ctx, strings.ToLower(*email))
	switch {
	case err == nil:
		zlog.Info("user already exists", zap.Uint("user_id", user.ID))
	case errors.Is(err, repositories.ErrUserNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			zlog.Fatal("failed to hash password", zap.Error(err))
		}
		user = &models.User{
			Email:    strings.ToLower(*email),
			Password: string(hashed),
			Name:     *name,
			Role:     models.RoleClient,
			Status:   models.UserStatusActive,
		}
		if err := users.Create(ctx, user); err != nil {
			zlog.Fatal("failed to create user", zap.Error(err))
		}
		if err := accounts.Create(ctx, &models.Account{UserID: user.ID, Balance: opening}); err != nil {
			zlog.Fatal("failed to create account", zap.Error(err))
		}
	default:
		zlog.Fatal("failed to look up user", zap.Error(err))
	}

	acc, err := accounts.GetByUserID(ctx, user.ID)
	if err != nil {
		zlog.Fatal("failed to load account", zap.Error(err))
	}

	issued, err := issuer.Issue(ctx, user.ID, *codes)
	if err != nil {
		zlog.Fatal("failed to issue transfer codes", zap.Error(err))
	}

	fmt.Printf("user %d (%s) account %d balance %s\n", user.ID, user.Email, acc.ID, acc.Balance.StringFixed(2))
	for _, code := range issued {
		fmt.Println(code)
	}
}

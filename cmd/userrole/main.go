package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"chathub/internal/adapter/repo"
	"chathub/internal/domain"
)

func main() {
	var (
		idFlag      string
		emailFlag   string
		roleFlag    string
		vipDaysFlag int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&roleFlag, "role", "vip", "role to assign (user, vip, admin)")
	flag.IntVar(&vipDaysFlag, "vip-days", 30, "VIP validity in days when assigning the vip role")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	role := domain.UserRole(strings.TrimSpace(strings.ToLower(roleFlag)))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	if !role.Valid() {
		exitWithError(fmt.Errorf("unsupported role %q", role))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	users := repo.NewUserRepository(pool)

	var user *domain.User
	if userID != "" {
		user, err = users.GetByID(ctx, userID)
	} else {
		user, err = users.GetByEmail(ctx, email)
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}

	var vipExpiresAt *time.Time
	if role == domain.UserRoleVIP {
		expiry := time.Now().Add(time.Duration(vipDaysFlag) * 24 * time.Hour)
		vipExpiresAt = &expiry
	}

	if err := users.UpdateRole(ctx, user.ID, role, vipExpiresAt); err != nil {
		exitWithError(fmt.Errorf("failed to update role: %w", err))
	}

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("User %s (%s): %s -> %s\n", bold(user.ID), user.Email, user.Role, green(role))
	if vipExpiresAt != nil {
		fmt.Printf("VIP expires at %s\n", vipExpiresAt.Format(time.RFC3339))
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

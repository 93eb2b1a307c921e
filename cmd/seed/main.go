package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ghostflow/agency-service/internal/auth"
	"github.com/ghostflow/agency-service/internal/config"
	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/observability"
	"github.com/ghostflow/agency-service/internal/persistence"
	"github.com/ghostflow/agency-service/internal/repository"
)

// Seeds a demo admin, employee and client (with subscription) so a
// fresh environment is immediately usable.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	users := repository.NewUserRepository(pg.PoolHandle())
	subscriptions := repository.NewSubscriptionRepository(pg.PoolHandle())

	seedUser(ctx, logger, cfg, users, "admin@agency.test", "Agency Admin", domain.RoleAdmin)
	seedUser(ctx, logger, cfg, users, "employee@agency.test", "Design Employee", domain.RoleEmployee)
	client := seedUser(ctx, logger, cfg, users, "client@agency.test", "Demo Client", domain.RoleClient)

	if client != nil {
		seedSubscription(ctx, logger, cfg, subscriptions, client.ID)
	}
	logger.Info("seed complete")
}

func seedUser(ctx context.Context, logger *zap.Logger, cfg *config.Config, users repository.UserRepository, email, name string, role domain.Role) *domain.User {
	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		logger.Info("user already present", zap.String("email", email))
		return existing
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Fatal("lookup user", zap.Error(err))
	}

	hash, err := auth.HashPassword("password123", cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("hash password", zap.Error(err))
	}
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatal("create user", zap.Error(err))
	}
	logger.Info("seeded user", zap.String("email", email), zap.String("role", string(role)))
	return user
}

func seedSubscription(ctx context.Context, logger *zap.Logger, cfg *config.Config, subscriptions repository.SubscriptionRepository, clientID string) {
	if _, err := subscriptions.GetByClientID(ctx, clientID); err == nil {
		logger.Info("subscription already present", zap.String("client_id", clientID))
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		logger.Fatal("lookup subscription", zap.Error(err))
	}

	totalDays := cfg.Subscription.DefaultTotalDays
	sub := &domain.Subscription{
		ClientID:      clientID,
		Status:        domain.SubscriptionStatusActive,
		TotalDays:     totalDays,
		DaysUsed:      0,
		DaysRemaining: totalDays,
	}
	if err := subscriptions.Create(ctx, sub); err != nil {
		logger.Fatal("create subscription", zap.Error(err))
	}
	logger.Info("seeded subscription", zap.String("client_id", clientID), zap.Int("total_days", totalDays))
}

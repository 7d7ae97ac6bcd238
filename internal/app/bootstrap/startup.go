// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	formstore "github.com/dalemusser/meritrack/internal/app/store/forms"
	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It seeds the default form templates and, when configured, the admin
// account.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	seeded, err := formstore.New(deps.MongoDatabase).SeedDefaults(ctx)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded default form templates")
	}

	if appCfg.SeedAdminUsername != "" {
		if err := ensureSeedAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSeedAdmin creates the configured admin account when no user
// with that username exists. An existing user keeps their current
// credentials and role; seeding never overwrites.
func ensureSeedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	_, err := users.GetByUsername(ctx, appCfg.SeedAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := users.Create(ctx, models.User{
		Name:         appCfg.SeedAdminName,
		Username:     appCfg.SeedAdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			// Raced with another instance; the account exists now.
			return nil
		}
		return err
	}

	logger.Info("created seed admin account",
		zap.String("username", admin.Username),
		zap.String("id", admin.ID.Hex()))
	return nil
}

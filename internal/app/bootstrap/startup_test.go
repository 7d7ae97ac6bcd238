package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSeedAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{
		SeedAdminName:     "Portal Admin",
		SeedAdminUsername: "admin",
		SeedAdminPassword: "changeme-now",
	}

	if err := ensureSeedAdmin(ctx, deps, appCfg, testLogger()); err != nil {
		t.Fatalf("ensureSeedAdmin failed: %v", err)
	}

	admin, err := userstore.New(db).GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("failed to find created admin: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", admin.Role)
	}
	if !admin.Active {
		t.Error("seed admin is not active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("changeme-now")); err != nil {
		t.Error("stored hash does not match the configured password")
	}
}

func TestEnsureSeedAdmin_NeverOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	existing := f.CreateUser(ctx, "Already Here", "admin", models.RoleStudent)

	deps := DBDeps{MongoDatabase: db}
	appCfg := AppConfig{
		SeedAdminName:     "Portal Admin",
		SeedAdminUsername: "admin",
		SeedAdminPassword: "changeme-now",
	}

	if err := ensureSeedAdmin(ctx, deps, appCfg, testLogger()); err != nil {
		t.Fatalf("ensureSeedAdmin failed: %v", err)
	}

	got, err := userstore.New(db).GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Role != models.RoleStudent {
		t.Errorf("role = %q, seeding must not promote an existing account", got.Role)
	}
	if got.PasswordHash != existing.PasswordHash {
		t.Error("seeding changed an existing account's password hash")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{
			"valid",
			AppConfig{MongoURI: "mongodb://localhost:27017", StorageType: "local", StorageLocalPath: "./uploads/evidence"},
			false,
		},
		{
			"bad mongo uri",
			AppConfig{MongoURI: "http://localhost", StorageType: "local", StorageLocalPath: "./uploads/evidence"},
			true,
		},
		{
			"unsupported storage",
			AppConfig{MongoURI: "mongodb://localhost:27017", StorageType: "s3", StorageLocalPath: "./uploads/evidence"},
			true,
		},
		{
			"seed admin without password",
			AppConfig{MongoURI: "mongodb://localhost:27017", StorageType: "local", StorageLocalPath: "./uploads/evidence", SeedAdminUsername: "admin"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(nil, tt.cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

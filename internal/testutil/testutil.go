// Package testutil provides database setup and fixture helpers for
// store and handler tests. Tests that need Mongo are skipped unless
// MERITRACK_TEST_MONGO_URI is set.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testDBEnv = "MERITRACK_TEST_MONGO_URI"

// SetupTestDB connects to the test Mongo instance and returns a fresh,
// uniquely named database that is dropped when the test finishes. Tests
// are skipped when MERITRACK_TEST_MONGO_URI is not set.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(testDBEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping database test", testDBEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}

	dbName := fmt.Sprintf("meritrack_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous timeout for test
// database operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

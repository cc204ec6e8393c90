package docstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// Runs against a real server only when MENUCRAFT_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MENUCRAFT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MENUCRAFT_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database(fmt.Sprintf("menucraft_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	s := NewMongo(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	exerciseStore(t, s)
}

package notificationstore

import (
	"strings"
	"testing"

	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateSanitizesAndTypes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	n, err := store.Create(ctx, models.Notification{
		StudentID:   primitive.NewObjectID(),
		ActivityID:  primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		SenderID:    primitive.NewObjectID(),
		Message:     `Please attach the certificate <script>alert("x")</script>`,
		Role:        models.RoleRater,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(n.Message, "<script>") {
		t.Errorf("message not sanitized: %q", n.Message)
	}
	if !strings.Contains(n.Message, "Please attach the certificate") {
		t.Errorf("sanitizer dropped the text: %q", n.Message)
	}
	if n.Type != models.NotificationRequest {
		t.Errorf("type = %q, want request for a rater", n.Type)
	}
	if n.Read {
		t.Error("new notification marked read")
	}

	clar, err := store.Create(ctx, models.Notification{
		StudentID:   primitive.NewObjectID(),
		ActivityID:  primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		SenderID:    primitive.NewObjectID(),
		Message:     "Which event was this?",
		Role:        models.RoleValidator,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if clar.Type != models.NotificationClarification {
		t.Errorf("type = %q, want clarification for a validator", clar.Type)
	}
}

func TestListByRecipientNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	recipient := primitive.NewObjectID()

	for _, msg := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, models.Notification{
			StudentID:   primitive.NewObjectID(),
			ActivityID:  primitive.NewObjectID(),
			RecipientID: recipient,
			SenderID:    primitive.NewObjectID(),
			Message:     msg,
			Role:        models.RoleRater,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// Someone else's notification stays out of the list.
	if _, err := store.Create(ctx, models.Notification{
		StudentID:   primitive.NewObjectID(),
		ActivityID:  primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		SenderID:    primitive.NewObjectID(),
		Message:     "not yours",
		Role:        models.RoleRater,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.ListByRecipient(ctx, recipient)
	if err != nil {
		t.Fatalf("ListByRecipient failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d notifications, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatal("notifications not sorted newest first")
		}
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	n, err := store.Create(ctx, models.Notification{
		StudentID:   primitive.NewObjectID(),
		ActivityID:  primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		SenderID:    primitive.NewObjectID(),
		Message:     "delete me",
		Role:        models.RoleValidator,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	deleted, err := store.Delete(ctx, n.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	deleted, err = store.Delete(ctx, n.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d on a missing notification, want 0", deleted)
	}
}

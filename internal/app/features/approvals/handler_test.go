package approvals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	approvalstore "github.com/dalemusser/meritrack/internal/app/store/approvals"
	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	h := NewHandler(db.Client(), activitystore.New(db), approvalstore.New(db), userstore.New(db), zap.NewNop())
	return h, f
}

func approveBody(t *testing.T, studentID primitive.ObjectID, medal string, ids ...string) *bytes.Buffer {
	t.Helper()
	activities := make([]map[string]string, len(ids))
	for i, id := range ids {
		activities[i] = map[string]string{"_id": id}
	}
	body, err := json.Marshal(map[string]any{
		"submission": map[string]any{
			"studentId":  studentID.Hex(),
			"activities": activities,
		},
		"medal": medal,
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewBuffer(body)
}

func postApprove(h *Handler, validator models.User, body *bytes.Buffer) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/approve-submission", body)
	req.Header.Set("Content-Type", "application/json")
	req = auth.WithUser(req, &auth.SessionUser{
		ID:   validator.ID.Hex(),
		Name: validator.Name,
		Role: validator.Role,
	})
	rec := httptest.NewRecorder()
	h.Approve(rec, req)
	return rec
}

func TestApproveBronzeGroup(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val Idator", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Stu Dent", "student")
	a1 := f.CreateActivity(ctx, student.ID, "community", 500, models.StatusSubmitted)
	a2 := f.CreateActivity(ctx, student.ID, "creative", 600, models.StatusSubmitted)
	a3 := f.CreateActivity(ctx, student.ID, "athletes", 200, models.StatusSubmitted)

	// Composite IDs from the legacy pages are accepted.
	rec := postApprove(h, validator, approveBody(t, student.ID, "Bronze",
		a1.ID.Hex(), a2.ID.Hex()+"_creative", a3.ID.Hex()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success    bool                      `json:"success"`
		Submission models.ApprovedSubmission `json:"submission"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Submission.Points != 1300 {
		t.Errorf("points = %d, want 1300", resp.Submission.Points)
	}
	if resp.Submission.Medal != "Bronze" {
		t.Errorf("medal = %q, want Bronze", resp.Submission.Medal)
	}
	if resp.Submission.ApprovedBy != "Val Idator" {
		t.Errorf("approvedBy = %q, want the session validator", resp.Submission.ApprovedBy)
	}

	got, err := h.Activities.GetByID(ctx, a1.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("activity status = %q, want Approved", got.Status)
	}
}

func TestApproveRejectsIneligibleTotal(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Low Total", "lowtotal")
	a := f.CreateActivity(ctx, student.ID, "community", 900, models.StatusSubmitted)

	rec := postApprove(h, validator, approveBody(t, student.ID, "Bronze", a.ID.Hex()))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}

	// Nothing moved.
	got, err := h.Activities.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusSubmitted {
		t.Errorf("status = %q, want Submitted", got.Status)
	}
}

func TestApproveRejectsMedalMismatch(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Gold Claim", "goldclaim")
	a := f.CreateActivity(ctx, student.ID, "community", 1300, models.StatusSubmitted)

	// 1300 points is Bronze; the declared Gold does not pass.
	rec := postApprove(h, validator, approveBody(t, student.ID, "Gold", a.ID.Hex()))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", rec.Code, rec.Body.String())
	}
}

func TestApproveRejectsUnsubmittedActivity(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Mixed", "mixed")
	a1 := f.CreateActivity(ctx, student.ID, "community", 800, models.StatusSubmitted)
	a2 := f.CreateActivity(ctx, student.ID, "creative", 700, models.StatusApproved)

	rec := postApprove(h, validator, approveBody(t, student.ID, "Bronze", a1.ID.Hex(), a2.ID.Hex()))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}
}

func TestApproveRejectsMissingActivity(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Ghost", "ghost")
	a := f.CreateActivity(ctx, student.ID, "community", 1200, models.StatusSubmitted)

	rec := postApprove(h, validator, approveBody(t, student.ID, "Bronze",
		a.ID.Hex(), primitive.NewObjectID().Hex()))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}
}

func TestApproveRejectsBadRequests(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	validator := f.CreateUser(ctx, "Val", "validator", models.RoleValidator)
	student := f.CreateStudent(ctx, "Bad Req", "badreq")

	tests := []struct {
		name string
		body string
	}{
		{"no submission", `{"medal":"Bronze"}`},
		{"no medal", fmt.Sprintf(`{"submission":{"studentId":%q,"activities":[{"_id":%q}]}}`, student.ID.Hex(), primitive.NewObjectID().Hex())},
		{"bad activity id", fmt.Sprintf(`{"submission":{"studentId":%q,"activities":[{"_id":"not-hex"}]},"medal":"Bronze"}`, student.ID.Hex())},
		{"bad student id", fmt.Sprintf(`{"submission":{"studentId":"nope","activities":[{"_id":%q}]},"medal":"Bronze"}`, primitive.NewObjectID().Hex())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postApprove(h, validator, bytes.NewBufferString(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAwardsNotFoundWhenEmpty(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := f.CreateStudent(ctx, "No Awards", "noawards")

	req := httptest.NewRequest(http.MethodGet, "/api/student/awards/"+student.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "studentId", student.ID.Hex())
	rec := httptest.NewRecorder()
	h.Awards(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

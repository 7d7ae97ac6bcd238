package activities

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/dalemusser/meritrack/internal/app/features/evidence"
	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	formstore "github.com/dalemusser/meritrack/internal/app/store/forms"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)

	store, err := storage.NewLocal(storage.LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/files/evidence",
	})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	ev := evidence.NewHandler(store, zap.NewNop())
	h := NewHandler(activitystore.New(db), formstore.New(db), ev, zap.NewNop())
	return h, f
}

func TestSubmitMovesToSubmitted(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := f.CreateStudent(ctx, "Subm It", "submit")
	rater := f.CreateUser(ctx, "Rae Ter", "rater", models.RoleRater)
	a := f.CreateActivity(ctx, student.ID, "community", 300, models.StatusNotSubmitted)

	body := bytes.NewBufferString(`{"raterId":"` + rater.ID.Hex() + `"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/activities/"+a.ID.Hex()+"/submit", body)
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	got, err := h.Activities.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusSubmitted {
		t.Errorf("status = %q, want Submitted", got.Status)
	}
	if got.RecipientID == nil || *got.RecipientID != rater.ID {
		t.Errorf("recipient = %v, want the rater", got.RecipientID)
	}
}

func TestSubmitMissingActivity(t *testing.T) {
	h, _ := newTestHandler(t)

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPut, "/api/activities/"+id+"/submit", nil)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := f.CreateStudent(ctx, "Stat Us", "status")
	a := f.CreateActivity(ctx, student.ID, "community", 100, models.StatusNotSubmitted)

	body := bytes.NewBufferString(`{"status":"Pending"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/activities/"+a.ID.Hex()+"/status", body)
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())
	rec := httptest.NewRecorder()
	h.SetStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	got, err := h.Activities.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.StatusNotSubmitted {
		t.Errorf("status changed to %q on a rejected request", got.Status)
	}
}

func TestDeleteRemovesActivity(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := f.CreateStudent(ctx, "Dele Te", "delete")
	a := f.CreateActivity(ctx, student.ID, "community", 100, models.StatusNotSubmitted)

	req := httptest.NewRequest(http.MethodDelete, "/api/activities/"+a.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/activities/"+a.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d on a deleted activity, want 404", rec.Code)
	}
}

func TestDeleteRemovesEvidenceFiles(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := f.CreateStudent(ctx, "Evi Dence", "evidence")
	f.CreateFormTemplate(ctx, "community")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("studentId", student.ID.Hex()); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.WriteField("category", "community"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.WriteField("activity", "Coastal Cleanup"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="evidence"; filename="photo.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("\x89PNG\r\n\x1a\nnot-a-real-image")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/activities", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var created models.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.Evidence) != 1 {
		t.Fatalf("evidence paths = %v, want exactly one", created.Evidence)
	}

	download := func(path string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/evidence/"+path, nil)
		r = testutil.WithChiURLParam(r, "*", path)
		w := httptest.NewRecorder()
		h.Evidence.Download(w, r)
		return w.Code
	}

	if code := download(created.Evidence[0]); code != http.StatusOK {
		t.Fatalf("download before delete = %d, want 200", code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/activities/"+created.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	if code := download(created.Evidence[0]); code != http.StatusNotFound {
		t.Errorf("download after delete = %d, want 404", code)
	}
}

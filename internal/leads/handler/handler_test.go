package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"eventcrm_backend/platform/validator"
)

type fakeEnqueuer struct {
	calls     int
	minLeadID *int64
	err       error
}

func (f *fakeEnqueuer) EnqueueWebsiteLeadSync(ctx context.Context, minLeadID *int64) error {
	f.calls++
	f.minLeadID = minLeadID
	return f.err
}

func syncRequest(t *testing.T, target string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, nil)
	return w, c
}

func TestSyncNow_QueuesRun(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := New(nil, validator.New(), enqueuer)

	w, c := syncRequest(t, "/leads/sync?min_lead_id=900")
	h.SyncNow(c)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if enqueuer.calls != 1 {
		t.Fatalf("expected one enqueue, got %d", enqueuer.calls)
	}
	if enqueuer.minLeadID == nil || *enqueuer.minLeadID != 900 {
		t.Fatalf("expected min lead id 900 forwarded, got %v", enqueuer.minLeadID)
	}
}

func TestSyncNow_InvalidMinLeadID(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := New(nil, validator.New(), enqueuer)

	w, c := syncRequest(t, "/leads/sync?min_lead_id=-1")
	h.SyncNow(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if enqueuer.calls != 0 {
		t.Fatalf("expected no enqueue on invalid input, got %d", enqueuer.calls)
	}
}

func TestSyncNow_QueueNotConfigured(t *testing.T) {
	h := New(nil, validator.New(), nil)

	w, c := syncRequest(t, "/leads/sync")
	h.SyncNow(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a queue, got %d", w.Code)
	}
}

package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhys706/house-inspector/internal/application"
	appreport "github.com/rhys706/house-inspector/internal/application/report"
	appsession "github.com/rhys706/house-inspector/internal/application/session"
	domcamera "github.com/rhys706/house-inspector/internal/domain/camera"
	"github.com/rhys706/house-inspector/internal/domain/permission"
	domspeech "github.com/rhys706/house-inspector/internal/domain/speech"
	"github.com/rhys706/house-inspector/internal/infra/httpserver"
)

// fakeCamera is both Device and Sink, like the production frame feed.
type fakeCamera struct {
	mu    sync.Mutex
	open  bool
	frame []byte
}

func (f *fakeCamera) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	return nil
}

func (f *fakeCamera) Offer(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return domcamera.ErrUnavailable
	}
	f.frame = append([]byte(nil), frame...)
	return nil
}

func (f *fakeCamera) Capture(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frame) == 0 {
		return nil, domcamera.ErrCapture
	}
	return f.frame, nil
}

func (f *fakeCamera) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}

// fakeRecognizer emits one partial transcript per audio push.
type fakeRecognizer struct {
	mu        sync.Mutex
	fn        domspeech.ResultFunc
	listening bool
}

func (f *fakeRecognizer) Initialize(ctx context.Context) error { return nil }

func (f *fakeRecognizer) Start(ctx context.Context, fn domspeech.ResultFunc) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.listening = true
	return nil
}

func (f *fakeRecognizer) Push(ctx context.Context, audio []byte) error {
	f.mu.Lock()
	fn := f.fn
	listening := f.listening
	f.mu.Unlock()
	if !listening {
		return domspeech.ErrNotListening
	}
	fn(domspeech.Result{Text: "spoken note"})
	return nil
}

func (f *fakeRecognizer) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listening = false
	f.fn = nil
	return nil
}

type allGranted struct{}

func (allGranted) Granted(context.Context, permission.Kind) bool { return true }

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	mgr := appsession.NewManager(appsession.Deps{
		Cameras:     func() domcamera.Device { return &fakeCamera{} },
		Recognizers: func() domspeech.Recognizer { return &fakeRecognizer{} },
		Perms:       allGranted{},
		Clock:       application.SystemClock{},
	})
	reports := &appreport.Service{Clock: application.SystemClock{}}
	return httpserver.NewRouter(mgr, reports, nil)
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == nil {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func openSession(t *testing.T, h http.Handler, inspector string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/"+inspector+"/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap appsession.Snapshot
	decode(t, rec, &snap)
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func TestOpenSession(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodPost, "/v1/alex/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var snap appsession.Snapshot
	decode(t, rec, &snap)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, appsession.CameraReady, snap.Camera)
	assert.Equal(t, appsession.SpeechIdle, snap.Speech)
	assert.Equal(t, "Kitchen", string(snap.Room))
}

func TestFullCaptureFlow(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")
	base := "/v1/alex/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/room", []byte(`{"room":"Garage"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, base+"/frames", []byte{0xff, 0xd8, 0x01})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/photo", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap appsession.Snapshot
	decode(t, rec, &snap)
	assert.True(t, snap.HasImage)

	rec = do(t, h, http.MethodPost, base+"/comment", []byte(`{"text":"door stuck"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/commit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var committed struct {
		Room     string `json:"room"`
		Comment  string `json:"comment"`
		HasImage bool   `json:"has_image"`
	}
	decode(t, rec, &committed)
	assert.Equal(t, "Garage", committed.Room)
	assert.Equal(t, "door stuck", committed.Comment)
	assert.True(t, committed.HasImage)

	rec = do(t, h, http.MethodGet, base+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rep struct {
		Rooms []struct {
			Room    string            `json:"room"`
			Records []json.RawMessage `json:"records"`
		} `json:"rooms"`
		Total int  `json:"total_records"`
		Empty bool `json:"empty"`
	}
	decode(t, rec, &rep)
	assert.False(t, rep.Empty)
	assert.Equal(t, 1, rep.Total)
	require.Len(t, rep.Rooms, 1)
	assert.Equal(t, "Garage", rep.Rooms[0].Room)
}

func TestCommitEmptyDraft(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodPost, "/v1/alex/sessions/"+id+"/commit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCaptureWithoutFrame(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodPost, "/v1/alex/sessions/"+id+"/photo", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDictationFlow(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")
	base := "/v1/alex/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/dictation/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap appsession.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, appsession.SpeechListening, snap.Speech)

	rec = do(t, h, http.MethodPost, base+"/dictation/audio", []byte{0x01, 0x02})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, h, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &snap)
	assert.Equal(t, "spoken note", snap.Comment)

	rec = do(t, h, http.MethodPost, base+"/dictation/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &snap)
	assert.Equal(t, appsession.SpeechIdle, snap.Speech)

	// stop again without a turn in flight
	rec = do(t, h, http.MethodPost, base+"/dictation/stop", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEmptyReport(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodGet, "/v1/alex/sessions/"+id+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rep struct {
		Empty bool   `json:"empty"`
		Note  string `json:"note"`
	}
	decode(t, rec, &rep)
	assert.True(t, rep.Empty)
	assert.Equal(t, "no items yet", rep.Note)
}

func TestUnknownSession(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/v1/alex/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionScopedToInspector(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodGet, "/v1/bob/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndSession(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodDelete, "/v1/alex/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ended"))

	rec = do(t, h, http.MethodGet, "/v1/alex/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidRoomRejected(t *testing.T) {
	h := setupServer(t)
	id := openSession(t, h, "alex")

	rec := do(t, h, http.MethodPost, "/v1/alex/sessions/"+id+"/room", []byte(`{"room":"  "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveNotConfigured(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/v1/alex/archive/whatever", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	h := setupServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

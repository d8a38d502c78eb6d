package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	appreport "github.com/rhys706/house-inspector/internal/application/report"
	appsession "github.com/rhys706/house-inspector/internal/application/session"
	domcamera "github.com/rhys706/house-inspector/internal/domain/camera"
	"github.com/rhys706/house-inspector/internal/domain/inspection"
	domspeech "github.com/rhys706/house-inspector/internal/domain/speech"
	"github.com/rhys706/house-inspector/internal/middleware"
)

const maxFrameBytes = 8 << 20 // one JPEG frame or audio chunk

type Router struct {
	sessions *appsession.Manager
	reports  *appreport.Service
	archive  inspection.Archiver // optional
}

func NewRouter(sessions *appsession.Manager, reports *appreport.Service, archive inspection.Archiver) http.Handler {
	r := &Router{sessions: sessions, reports: reports, archive: archive}
	mux := chi.NewRouter()

	mux.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/v1/{inspector}", func(rt chi.Router) {
		rt.Post("/sessions", r.wrap(r.handleOpenSession))
		rt.Get("/sessions/{id}", r.wrap(r.handleSnapshot))
		rt.Delete("/sessions/{id}", r.wrap(r.handleEndSession))

		rt.Post("/sessions/{id}/room", r.wrap(r.handleSelectRoom))
		rt.Post("/sessions/{id}/frames", r.wrap(r.handleOfferFrame))
		rt.Post("/sessions/{id}/photo", r.wrap(r.handleCapturePhoto))
		rt.Post("/sessions/{id}/dictation/start", r.wrap(r.handleStartDictation))
		rt.Post("/sessions/{id}/dictation/audio", r.wrap(r.handlePushAudio))
		rt.Post("/sessions/{id}/dictation/stop", r.wrap(r.handleStopDictation))
		rt.Post("/sessions/{id}/comment", r.wrap(r.handleEditComment))
		rt.Post("/sessions/{id}/commit", r.wrap(r.handleCommit))

		rt.Get("/sessions/{id}/records", r.wrap(r.handleRecords))
		rt.Get("/sessions/{id}/report", r.wrap(r.handleReport))
		rt.Get("/archive/{id}", r.wrap(r.handleArchiveList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain sentinels onto HTTP statuses. Capability-unavailable and
// busy conditions are conflicts the client can render as a persistent
// notice; a failed capture attempt is retryable.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, appsession.ErrNotFound), errors.Is(err, appsession.ErrEnded):
				http.Error(w, "session not found", http.StatusNotFound)
			case errors.Is(err, appsession.ErrEmptyDraft), errors.Is(err, inspection.ErrEmptyRecord):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, appsession.ErrCaptureBusy),
				errors.Is(err, domspeech.ErrAlreadyListening),
				errors.Is(err, domspeech.ErrNotListening):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, domcamera.ErrUnavailable), errors.Is(err, domspeech.ErrUnavailable):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, domcamera.ErrCapture):
				http.Error(w, err.Error(), http.StatusBadGateway)
			case errors.Is(err, errBadRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

var errBadRequest = errors.New("bad request")

func (r *Router) session(req *http.Request) (*appsession.Session, error) {
	inspector := chi.URLParam(req, "inspector")
	id := chi.URLParam(req, "id")
	return r.sessions.Get(inspector, id)
}

// POST /v1/{inspector}/sessions
func (r *Router) handleOpenSession(w http.ResponseWriter, req *http.Request) error {
	inspector := chi.URLParam(req, "inspector")
	if err := middleware.ValidateInspectorID(inspector); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	s := r.sessions.Open(req.Context(), inspector)
	middleware.IncrementSessionsOpened()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// GET /v1/{inspector}/sessions/{id}
func (r *Router) handleSnapshot(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// DELETE /v1/{inspector}/sessions/{id}
func (r *Router) handleEndSession(w http.ResponseWriter, req *http.Request) error {
	inspector := chi.URLParam(req, "inspector")
	id := chi.URLParam(req, "id")
	if err := r.sessions.Close(req.Context(), inspector, id); err != nil {
		return err
	}
	middleware.IncrementSessionsEnded()
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"status":  "ended",
		"id":      id,
		"endedAt": time.Now(),
	})
}

// POST /v1/{inspector}/sessions/{id}/room
func (r *Router) handleSelectRoom(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	var body struct {
		Room string `json:"room"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateRoom(body.Room); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := s.SelectRoom(inspection.Room(body.Room)); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// POST /v1/{inspector}/sessions/{id}/frames
// Body: raw frame bytes streamed from the device camera preview.
func (r *Router) handleOfferFrame(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	frame, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxFrameBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := s.OfferFrame(frame); err != nil {
		return err
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

// POST /v1/{inspector}/sessions/{id}/photo
func (r *Router) handleCapturePhoto(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	middleware.IncrementCaptures()
	if err := s.CapturePhoto(req.Context()); err != nil {
		middleware.IncrementCapturesFailed()
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// POST /v1/{inspector}/sessions/{id}/dictation/start
func (r *Router) handleStartDictation(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	if err := s.StartDictation(req.Context()); err != nil {
		return err
	}
	middleware.IncrementDictationsStarted()
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// POST /v1/{inspector}/sessions/{id}/dictation/audio
// Body: raw audio chunk for the in-flight dictation turn.
func (r *Router) handlePushAudio(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	audio, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxFrameBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := s.PushAudio(req.Context(), audio); err != nil {
		return err
	}
	w.WriteHeader(http.StatusAccepted)
	return nil
}

// POST /v1/{inspector}/sessions/{id}/dictation/stop
func (r *Router) handleStopDictation(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	if err := s.StopDictation(req.Context()); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// POST /v1/{inspector}/sessions/{id}/comment
func (r *Router) handleEditComment(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateComment(body.Text); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := s.EditComment(body.Text); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Snapshot())
}

// POST /v1/{inspector}/sessions/{id}/commit
func (r *Router) handleCommit(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	rec, err := s.Commit(req.Context())
	if err != nil {
		return err
	}
	middleware.IncrementCommits()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(rec)
}

// GET /v1/{inspector}/sessions/{id}/records
func (r *Router) handleRecords(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s.Records())
}

// GET /v1/{inspector}/sessions/{id}/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	s, err := r.session(req)
	if err != nil {
		return err
	}
	rep := r.reports.Build(s.ID, s.Store())
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rep)
}

// GET /v1/{inspector}/archive/{id}?limit=200
// Reads the persisted copy of a past session's records. 503 when no archive
// backend is configured.
func (r *Router) handleArchiveList(w http.ResponseWriter, req *http.Request) error {
	if r.archive == nil {
		http.Error(w, "archive not configured", http.StatusServiceUnavailable)
		return nil
	}
	inspector := chi.URLParam(req, "inspector")
	id := chi.URLParam(req, "id")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.archive.ListBySession(req.Context(), inspector, id, limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

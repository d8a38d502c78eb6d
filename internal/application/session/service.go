package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/rhys706/house-inspector/internal/application"
	domcamera "github.com/rhys706/house-inspector/internal/domain/camera"
	"github.com/rhys706/house-inspector/internal/domain/inspection"
	"github.com/rhys706/house-inspector/internal/domain/permission"
	domspeech "github.com/rhys706/house-inspector/internal/domain/speech"
)

// CameraState for one session. Unavailable is terminal for the session;
// every other state can still reach Ready.
type CameraState string

const (
	CameraIdle         CameraState = "idle"
	CameraInitializing CameraState = "initializing"
	CameraReady        CameraState = "ready"
	CameraCapturing    CameraState = "capturing"
	CameraUnavailable  CameraState = "unavailable"
)

// SpeechState is orthogonal to the camera state machine.
type SpeechState string

const (
	SpeechUnavailable SpeechState = "unavailable"
	SpeechIdle        SpeechState = "idle"
	SpeechListening   SpeechState = "listening"
)

// Draft is the in-progress observation for the current room. The pending
// image and comment are replaced, never accumulated, and both reset on
// commit while the room selection sticks.
type Draft struct {
	Room    inspection.Room
	Image   []byte
	Comment string
}

// Snapshot is the read-only view handed to presentation layers.
type Snapshot struct {
	ID        string          `json:"id"`
	Inspector string          `json:"inspector"`
	Camera    CameraState     `json:"camera"`
	Speech    SpeechState     `json:"speech"`
	Room      inspection.Room `json:"room"`
	HasImage  bool            `json:"has_image"`
	Comment   string          `json:"comment"`
	CanCommit bool            `json:"can_commit"`
	Records   int             `json:"records"`
}

// Session implements the capture use-cases for one walkthrough. Every
// operation and capability callback serializes through one mutex, the same
// one-event-at-a-time model the mobile client runs on. Capability failures
// downgrade a sub-state instead of ending the session.
type Session struct {
	ID        string
	Inspector string

	dev    domcamera.Device
	rec    domspeech.Recognizer
	clock  application.Clock
	notify Notifier

	archive inspection.Archiver   // optional
	images  inspection.ImageStore // optional

	mu     sync.Mutex
	camera CameraState
	speech SpeechState
	draft  Draft
	store  *inspection.Store
	ended  bool
}

// start initializes both capabilities. Either one failing leaves that
// feature disabled for the session and nothing else.
func (s *Session) start(ctx context.Context, perms permission.Granter) {
	s.mu.Lock()
	s.camera = CameraInitializing
	s.mu.Unlock()

	cam := CameraReady
	if perms == nil || !perms.Granted(ctx, permission.KindCamera) {
		cam = CameraUnavailable
		log.Printf("session=%s camera permission denied", s.ID)
	} else if err := s.dev.Initialize(ctx); err != nil {
		cam = CameraUnavailable
		log.Printf("session=%s camera init failed: %v", s.ID, err)
	}

	sp := SpeechIdle
	if !perms.Granted(ctx, permission.KindMicrophone) {
		sp = SpeechUnavailable
		log.Printf("session=%s microphone permission denied", s.ID)
	} else if err := s.rec.Initialize(ctx); err != nil {
		sp = SpeechUnavailable
		log.Printf("session=%s speech init failed: %v", s.ID, err)
	}

	s.mu.Lock()
	s.camera = cam
	s.speech = sp
	s.emit(EventSessionOpened)
	s.mu.Unlock()
}

// SelectRoom sets the draft room. No other side effects.
func (s *Session) SelectRoom(room inspection.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrEnded
	}
	if room == "" {
		room = inspection.DefaultRoom()
	}
	s.draft.Room = room
	s.emit(EventRoomSelected)
	return nil
}

// CapturePhoto takes one photo and stores it as the pending image. Only one
// request may be in flight; a concurrent call gets ErrCaptureBusy before the
// device is touched. A failed attempt returns the camera to ready with the
// draft untouched.
func (s *Session) CapturePhoto(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	switch s.camera {
	case CameraCapturing:
		s.mu.Unlock()
		return ErrCaptureBusy
	case CameraReady:
		// ok
	default:
		s.mu.Unlock()
		return domcamera.ErrUnavailable
	}
	s.camera = CameraCapturing
	s.mu.Unlock()

	// Device I/O runs without the lock so frame ingest and typing stay live.
	img, err := s.dev.Capture(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = CameraReady
	if err != nil {
		log.Printf("session=%s capture failed: %v", s.ID, err)
		return fmt.Errorf("%w: %v", domcamera.ErrCapture, err)
	}
	s.draft.Image = img
	s.emit(EventPhotoCaptured)
	return nil
}

// OfferFrame feeds one preview frame from the device into the camera feed.
func (s *Session) OfferFrame(frame []byte) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	if s.camera == CameraUnavailable {
		s.mu.Unlock()
		return domcamera.ErrUnavailable
	}
	sink, ok := s.dev.(domcamera.Sink)
	s.mu.Unlock()
	if !ok {
		return domcamera.ErrUnavailable
	}
	return sink.Offer(frame)
}

// StartDictation begins a listening turn. Requires the capability to have
// come up at session start.
func (s *Session) StartDictation(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	switch s.speech {
	case SpeechUnavailable:
		s.mu.Unlock()
		return domspeech.ErrUnavailable
	case SpeechListening:
		s.mu.Unlock()
		return domspeech.ErrAlreadyListening
	}
	s.speech = SpeechListening
	s.mu.Unlock()

	if err := s.rec.Start(ctx, s.onSpeech); err != nil {
		s.mu.Lock()
		s.speech = SpeechIdle
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.emit(EventDictationStarted)
	s.mu.Unlock()
	return nil
}

// PushAudio forwards an audio chunk to the recognizer. Transcripts come back
// through onSpeech.
func (s *Session) PushAudio(ctx context.Context, audio []byte) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	if s.speech != SpeechListening {
		s.mu.Unlock()
		return domspeech.ErrNotListening
	}
	s.mu.Unlock()
	return s.rec.Push(ctx, audio)
}

// StopDictation ends the listening turn. The pending comment keeps whatever
// transcript arrived last; a failed final transcription is logged, not fatal.
func (s *Session) StopDictation(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	if s.speech != SpeechListening {
		s.mu.Unlock()
		return domspeech.ErrNotListening
	}
	s.mu.Unlock()

	// Stop may deliver the final transcript synchronously via onSpeech.
	if err := s.rec.Stop(ctx); err != nil {
		log.Printf("session=%s dictation stop: %v", s.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speech == SpeechListening {
		s.speech = SpeechIdle
		s.emit(EventDictationStopped)
	}
	return nil
}

// onSpeech handles transcript events from the capability. Every event
// replaces the pending comment in full; a final event also ends the turn,
// same as an explicit stop.
func (s *Session) onSpeech(res domspeech.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.speech != SpeechListening {
		// Late events after stop/end are dropped.
		return
	}
	s.draft.Comment = res.Text
	s.emit(EventCommentChanged)
	if res.Final {
		s.speech = SpeechIdle
		s.emit(EventDictationStopped)
	}
}

// EditComment overwrites the pending comment, regardless of dictation state.
func (s *Session) EditComment(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrEnded
	}
	s.draft.Comment = text
	s.emit(EventCommentChanged)
	return nil
}

// Commit finalizes the draft into a record and appends it to the store.
// Rejected with ErrEmptyDraft when there is nothing to keep; rejection
// leaves the draft and the store untouched. On success the pending image and
// comment reset while the room selection carries over to the next
// observation.
func (s *Session) Commit(ctx context.Context) (*inspection.Record, error) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, ErrEnded
	}
	if len(s.draft.Image) == 0 && s.draft.Comment == "" {
		s.mu.Unlock()
		return nil, ErrEmptyDraft
	}
	rec, err := inspection.NewRecord(
		inspection.RecordID(uuid.New().String()),
		s.ID,
		s.draft.Room,
		s.draft.Image,
		s.draft.Comment,
		s.clock.Now(),
	)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.store.Append(rec); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.draft.Image = nil
	s.draft.Comment = ""
	s.emit(EventRecordCommitted)
	s.mu.Unlock()

	// Best-effort fan-out. The in-memory store already holds the record;
	// archive or export failure must not surface as a failed commit.
	if s.archive != nil {
		if err := s.archive.Save(ctx, s.Inspector, rec); err != nil {
			log.Printf("session=%s archive save record=%s: %v", s.ID, rec.ID, err)
		}
	}
	if s.images != nil && rec.HasImage {
		key := fmt.Sprintf("%s/%s/%s.jpg", s.Inspector, s.ID, rec.ID)
		url, err := s.images.Upload(ctx, key, rec.Image)
		if err != nil {
			log.Printf("session=%s image export record=%s: %v", s.ID, rec.ID, err)
		} else {
			log.Printf("session=%s image exported record=%s url=%s", s.ID, rec.ID, url)
		}
	}
	return rec, nil
}

// End releases the camera feed and stops a listening turn. Runs on every
// exit path and is idempotent.
func (s *Session) End(ctx context.Context) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	wasListening := s.speech == SpeechListening
	if wasListening {
		s.speech = SpeechIdle
	}
	if s.camera != CameraUnavailable {
		s.camera = CameraIdle
	}
	s.emit(EventSessionEnded)
	s.mu.Unlock()

	if wasListening {
		if err := s.rec.Stop(ctx); err != nil {
			log.Printf("session=%s stop dictation on end: %v", s.ID, err)
		}
	}
	s.dev.Release()
}

// Store exposes the session's record store to read-only consumers
// (report projection, archive listing).
func (s *Session) Store() *inspection.Store { return s.store }

// Records returns the committed records in insertion order.
func (s *Session) Records() []*inspection.Record { return s.store.All() }

// Snapshot returns the current controller state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.ID,
		Inspector: s.Inspector,
		Camera:    s.camera,
		Speech:    s.speech,
		Room:      s.draft.Room,
		HasImage:  len(s.draft.Image) > 0,
		Comment:   s.draft.Comment,
		CanCommit: len(s.draft.Image) > 0 || s.draft.Comment != "",
		Records:   s.store.Len(),
	}
}

// emit must be called with the lock held, after the mutation it reports.
func (s *Session) emit(kind EventKind) {
	if s.notify == nil {
		return
	}
	s.notify.Notify(Event{SessionID: s.ID, Kind: kind, At: s.clock.Now()})
}

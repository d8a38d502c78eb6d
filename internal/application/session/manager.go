package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/rhys706/house-inspector/internal/application"
	domcamera "github.com/rhys706/house-inspector/internal/domain/camera"
	"github.com/rhys706/house-inspector/internal/domain/inspection"
	"github.com/rhys706/house-inspector/internal/domain/permission"
	domspeech "github.com/rhys706/house-inspector/internal/domain/speech"
)

// Deps wires the capability factories and optional fan-out targets. Each
// session gets its own camera device and recognizer; archive, image store
// and notifier are shared.
type Deps struct {
	Cameras     func() domcamera.Device
	Recognizers func() domspeech.Recognizer
	Perms       permission.Granter
	Clock       application.Clock
	Notifier    Notifier
	Archive     inspection.Archiver
	Images      inspection.ImageStore
}

// Manager owns every live session in the process. The session object owns
// its record store; consumers reach it only through the session.
type Manager struct {
	d Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(d Deps) *Manager {
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	return &Manager{d: d, sessions: make(map[string]*Session)}
}

// Open creates a session and initializes its capabilities. Capability
// failures never fail Open; they leave that feature unavailable.
func (m *Manager) Open(ctx context.Context, inspector string) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Inspector: inspector,
		dev:       m.d.Cameras(),
		rec:       m.d.Recognizers(),
		clock:     m.d.Clock,
		notify:    m.d.Notifier,
		archive:   m.d.Archive,
		images:    m.d.Images,
		camera:    CameraIdle,
		speech:    SpeechIdle,
		draft:     Draft{Room: inspection.DefaultRoom()},
		store:     inspection.NewStore(),
	}
	s.start(ctx, m.d.Perms)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a live session for an inspector.
func (m *Manager) Get(inspector, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.Inspector != inspector {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close ends a session and drops it from the registry.
func (m *Manager) Close(ctx context.Context, inspector, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok && s.Inspector == inspector {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok || s.Inspector != inspector {
		return ErrNotFound
	}
	s.End(ctx)
	return nil
}

// Shutdown ends every live session. Called on process exit so camera feeds
// and dictation turns are released.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	live := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		live = append(live, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range live {
		s.End(ctx)
	}
}

package openai

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"

	domain "github.com/rhys706/house-inspector/internal/domain/speech"
)

// Recognizer implements the speech capability on top of whisper
// transcription. Audio chunks accumulate into one clip per listening turn;
// each push emits a partial transcript of the clip so far and Stop emits the
// final one. Every transcript carries the full text, so the controller's
// last-event-wins overwrite works out of the box.
type Recognizer struct {
	client *openai.Client
	model  string

	mu        sync.Mutex
	listening bool
	clip      []byte
	fn        domain.ResultFunc
}

// NewRecognizer with an empty apiKey yields a recognizer that reports
// unavailable at initialization, which is exactly how a denied microphone
// shows up to the session.
func NewRecognizer(apiKey, model string) *Recognizer {
	r := &Recognizer{model: model}
	if apiKey != "" {
		r.client = openai.NewClient(apiKey)
	}
	return r
}

func (r *Recognizer) Initialize(ctx context.Context) error {
	if r.client == nil {
		return domain.ErrUnavailable
	}
	return nil
}

func (r *Recognizer) Start(ctx context.Context, fn domain.ResultFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return domain.ErrUnavailable
	}
	if r.listening {
		return domain.ErrAlreadyListening
	}
	r.listening = true
	r.clip = nil
	r.fn = fn
	return nil
}

// Push appends a chunk and emits a partial transcript for the clip so far.
func (r *Recognizer) Push(ctx context.Context, audio []byte) error {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return domain.ErrNotListening
	}
	r.clip = append(r.clip, audio...)
	clip := make([]byte, len(r.clip))
	copy(clip, r.clip)
	fn := r.fn
	r.mu.Unlock()

	text, err := r.transcribe(ctx, clip)
	if err != nil {
		return fmt.Errorf("transcribe chunk: %w", err)
	}

	r.mu.Lock()
	still := r.listening
	r.mu.Unlock()
	if still && fn != nil {
		fn(domain.Result{Text: text})
	}
	return nil
}

// Stop ends the turn and emits the final transcript for the whole clip.
func (r *Recognizer) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.listening {
		r.mu.Unlock()
		return domain.ErrNotListening
	}
	r.listening = false
	clip := r.clip
	fn := r.fn
	r.clip = nil
	r.fn = nil
	r.mu.Unlock()

	if len(clip) == 0 || fn == nil {
		return nil
	}
	text, err := r.transcribe(ctx, clip)
	if err != nil {
		return fmt.Errorf("transcribe final: %w", err)
	}
	fn(domain.Result{Text: text, Final: true})
	return nil
}

func (r *Recognizer) transcribe(ctx context.Context, clip []byte) (string, error) {
	model := r.model
	if model == "" {
		model = openai.Whisper1
	}
	resp, err := r.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: "clip.wav",
		Reader:   bytes.NewReader(clip),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

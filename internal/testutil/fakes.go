package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dom/battle-arena/internal/genai"
)

// FakeGenerator implements genai.Generator with canned responses. All fields
// are safe for concurrent use; tests mutate the response fields before the
// calls they want to influence.
type FakeGenerator struct {
	mu sync.Mutex

	// AnalysisJSON is returned for prompts that ask for character stats.
	AnalysisJSON string
	// VerdictJSON is returned for prompts that ask for a battle verdict.
	VerdictJSON string
	// TextErr, when set, fails every GenerateText call.
	TextErr error
	// ImageErr, when set, fails every GenerateImage call.
	ImageErr error
	// Delay is slept before each call returns, to widen race windows.
	Delay time.Duration

	textCalls  []string
	imageCalls []string
}

func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{
		AnalysisJSON: `{"attack":30,"defense":20,"magic":20,"mana":15,"speed":15,"summary":"A canned fighter"}`,
		VerdictJSON:  `{"winner":"A","story":"{A} overwhelmed {B} after a hard-fought duel and claimed the arena."}`,
	}
}

func (f *FakeGenerator) GenerateText(ctx context.Context, model, prompt string, images []genai.Image) (string, error) {
	f.mu.Lock()
	delay := f.Delay
	err := f.TextErr
	f.textCalls = append(f.textCalls, prompt)
	var out string
	if strings.Contains(prompt, "winner") {
		out = f.VerdictJSON
	} else {
		out = f.AnalysisJSON
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

func (f *FakeGenerator) GenerateImage(ctx context.Context, model, prompt string, images []genai.Image) (genai.Image, error) {
	f.mu.Lock()
	delay := f.Delay
	err := f.ImageErr
	f.imageCalls = append(f.imageCalls, prompt)
	n := len(f.imageCalls)
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return genai.Image{}, ctx.Err()
		}
	}
	if err != nil {
		return genai.Image{}, err
	}
	return genai.Image{
		Data:     []byte(fmt.Sprintf("fake-image-%d", n)),
		MimeType: "image/png",
	}, nil
}

// TextCallCount returns how many text generations were requested.
func (f *FakeGenerator) TextCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.textCalls)
}

// ImageCallCount returns how many image generations were requested.
func (f *FakeGenerator) ImageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.imageCalls)
}

// SetTextErr changes the text failure mode mid-test.
func (f *FakeGenerator) SetTextErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TextErr = err
}

// SetImageErr changes the image failure mode mid-test.
func (f *FakeGenerator) SetImageErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ImageErr = err
}

// SetDelay changes the per-call latency mid-test.
func (f *FakeGenerator) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Delay = d
}

// MemoryStore is an in-memory ArtifactStore for tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (s *MemoryStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[path] = memoryObject{data: buf, contentType: contentType}
	return "mem://" + path, nil
}

func (s *MemoryStore) Download(ctx context.Context, path string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, "", fmt.Errorf("memory store: object not found: %s", path)
	}
	return obj.data, obj.contentType, nil
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

// Has reports whether an artifact exists under path.
func (s *MemoryStore) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

// Count returns the number of stored artifacts.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

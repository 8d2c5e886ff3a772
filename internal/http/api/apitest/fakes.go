package apitest

import (
	"context"
	"io"
	"mime/multipart"
	"sync"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// Flags is an in-memory feature set; keys that are absent count as enabled.
type Flags map[string]bool

func (f Flags) IsEnabled(_ context.Context, _ int, key string) (bool, error) {
	v, ok := f[key]
	return !ok || v, nil
}

func (f Flags) Flags(context.Context, int) (map[string]bool, error) {
	out := model.AllFeaturesEnabled()
	for k, v := range f {
		out[k] = v
	}
	return out, nil
}

type PublishedEvent struct {
	FamilyID int
	Type     string
	Data     any
}

// Publisher records events; safe for the goroutines notify.Fire starts.
type Publisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (p *Publisher) Publish(_ context.Context, familyID int, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{familyID, eventType, data})
	return nil
}

func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// Files is an in-memory storage.Storage returning /uploads style URLs.
type Files struct {
	mu    sync.Mutex
	Saved map[string][]byte
	Err   error
}

func (f *Files) SaveFile(fh *multipart.FileHeader, folder string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return f.SaveBytes(data, fh.Filename, folder)
}

func (f *Files) SaveBytes(data []byte, filename, folder string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Saved == nil {
		f.Saved = map[string][]byte{}
	}
	url := "/uploads/" + folder + "/" + filename
	f.Saved[url] = data
	return url, nil
}

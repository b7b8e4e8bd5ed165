package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/Niarfe/scripts-r-us/internal/models"
)

// WriteCall records one mutating call made against a FakeRemote
type WriteCall struct {
	Op   string // "source" or "description"
	ID   string
	Text string
}

// FakeRemote is an in-memory RightScript service. Like the real API, Index
// matches names by substring, so callers must re-check for exact matches.
type FakeRemote struct {
	Scripts    []models.RemoteScript
	Sources    map[string]string
	Writes     []WriteCall
	IndexCalls []string

	// IndexErr, when set, is returned by every Index call.
	IndexErr error
}

// NewFakeRemote returns a fake holding the given scripts
func NewFakeRemote(scripts ...models.RemoteScript) *FakeRemote {
	return &FakeRemote{
		Scripts: scripts,
		Sources: make(map[string]string),
	}
}

func (f *FakeRemote) Index(ctx context.Context, name string) ([]models.RemoteScript, error) {
	f.IndexCalls = append(f.IndexCalls, name)
	if f.IndexErr != nil {
		return nil, f.IndexErr
	}

	var out []models.RemoteScript
	for _, s := range f.Scripts {
		if name == "" || strings.Contains(s.Name, name) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeRemote) Get(ctx context.Context, id string) (*models.RemoteScript, error) {
	for _, s := range f.Scripts {
		if s.ID == id {
			s.Source = f.Sources[id]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("right script %s: %w", id, models.ErrNotFound)
}

func (f *FakeRemote) UpdateSource(ctx context.Context, id, text string) error {
	f.Writes = append(f.Writes, WriteCall{Op: "source", ID: id, Text: text})
	f.Sources[id] = text
	return nil
}

func (f *FakeRemote) UpdateDescription(ctx context.Context, id, text string) error {
	f.Writes = append(f.Writes, WriteCall{Op: "description", ID: id, Text: text})
	for i := range f.Scripts {
		if f.Scripts[i].ID == id {
			f.Scripts[i].Description = text
		}
	}
	return nil
}

func (f *FakeRemote) PublicURL(href string) string {
	return "https://my.example.com/acct/1/" + strings.TrimPrefix(href, "/api/")
}

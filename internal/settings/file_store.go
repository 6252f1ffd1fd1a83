package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type fileDoc struct {
	Mode     string `yaml:"mode"`
	URL      string `yaml:"url"`
	LobbyKey uint64 `yaml:"lobby_key"`
}

// FileStore reads the target from a YAML file:
//
//	mode: Online
//	url: ws://localhost:8765
//	lobby_key: 0
//
// A missing file yields the defaults.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Load(ctx context.Context) (Target, error) {
	t := Defaults()
	if strings.TrimSpace(s.path) == "" {
		return t, nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("read settings: %w", err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, fmt.Errorf("parse settings %s: %w", s.path, err)
	}
	if v := strings.TrimSpace(doc.URL); v != "" {
		t.Endpoint = v
	}
	if strings.TrimSpace(doc.Mode) != "" {
		t.Mode = ParseMode(doc.Mode)
	}
	t.LobbyKey = doc.LobbyKey
	return t, nil
}

// Save writes t back in the same format. Used by tooling and tests; the
// client itself only reads.
func (s *FileStore) Save(t Target) error {
	doc := fileDoc{Mode: string(t.Mode), URL: t.Endpoint, LobbyKey: t.LobbyKey}
	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

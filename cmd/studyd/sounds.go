package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

const defaultSoundID = "chime"

const (
	completionSound = "completion"
	ambientSound    = "ambient"
)

type soundInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"-"`
}

var soundCatalogEntries = []soundInfo{
	{ID: "chime", Name: "Soft Chime", Kind: completionSound, File: "chime.mp3"},
	{ID: "bell", Name: "Bell", Kind: completionSound, File: "bell.mp3"},
	{ID: "digital", Name: "Digital Alarm", Kind: completionSound, File: "digital.mp3"},
	{ID: "lofi", Name: "Lo-fi Music", Kind: ambientSound, File: "lofi.mp3"},
	{ID: "rain", Name: "Soft Rain", Kind: ambientSound, File: "rain.mp3"},
	{ID: "waves", Name: "Ocean Waves", Kind: ambientSound, File: "waves.mp3"},
	{ID: "coffee", Name: "Coffee Shop", Kind: ambientSound, File: "coffee.mp3"},
}

// soundCatalog preloads sound assets into memory at startup so serving a
// cue never touches the filesystem. Missing files are skipped; clients
// fall back to their bundled defaults.
type soundCatalog struct {
	sounds []soundInfo
	data   map[string][]byte
}

func newSoundCatalog(dir string, logger log.Logger) *soundCatalog {
	c := &soundCatalog{
		sounds: soundCatalogEntries,
		data:   make(map[string][]byte),
	}
	if dir == "" {
		logger.Info("no sounds dir configured - skip loading")
		return c
	}
	for _, s := range c.sounds {
		path := filepath.Join(dir, s.File)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Info("sound asset missing - skip loading", "sound", s.ID, "path", path)
			continue
		}
		logger.Info("loaded sound asset", "sound", s.ID, "bytes", len(data))
		c.data[s.ID] = data
	}
	return c
}

func (c *soundCatalog) List() []soundInfo {
	return c.sounds
}

func (c *soundCatalog) Data(id string) []byte {
	return c.data[id]
}

func (c *soundCatalog) IsAmbient(id string) bool {
	for _, s := range c.sounds {
		if s.ID == id {
			return s.Kind == ambientSound
		}
	}
	return false
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stillpoint/internal/core/model"
	"gopkg.in/yaml.v3"
)

const catalogFileName = "tracks.yaml"

// DefaultTrackVolume is the slider position a track starts at.
const DefaultTrackVolume = 50

type yamlCatalog struct {
	Tracks []yamlTrack `yaml:"tracks"`
}

type yamlTrack struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// DefaultCatalog returns the built-in ambient track set.
func DefaultCatalog() []model.SoundTrack {
	builtin := []struct {
		id   string
		name string
	}{
		{"ocean-waves", "Ocean Waves"},
		{"thunder", "Thunder"},
		{"fire", "Fire"},
		{"tibetan-bowls", "Tibetan Bowls"},
		{"street-ambience", "Street Ambience"},
	}

	tracks := make([]model.SoundTrack, 0, len(builtin))
	for _, entry := range builtin {
		tracks = append(tracks, model.SoundTrack{
			ID:     entry.id,
			Name:   entry.name,
			File:   filepath.Join("assets", "audio", entry.id+".mp3"),
			Volume: DefaultTrackVolume,
		})
	}
	return tracks
}

// LoadCatalog reads the track manifest from the store directory.
// If the manifest does not exist, the built-in catalog is returned.
func (store *Store) LoadCatalog() ([]model.SoundTrack, error) {
	catalogPath := filepath.Join(store.dir, catalogFileName)

	rawData, err := os.ReadFile(catalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultCatalog(), nil
		}
		return DefaultCatalog(), fmt.Errorf("read track catalog: %w", err)
	}

	var fileData yamlCatalog
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return DefaultCatalog(), fmt.Errorf("parse track catalog yaml: %w", err)
	}

	tracks := make([]model.SoundTrack, 0, len(fileData.Tracks))
	for _, entry := range fileData.Tracks {
		if entry.ID == "" || entry.File == "" {
			continue
		}
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		file := entry.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(store.dir, file)
		}
		tracks = append(tracks, model.SoundTrack{
			ID:     entry.ID,
			Name:   name,
			File:   file,
			Volume: DefaultTrackVolume,
		})
	}
	if len(tracks) == 0 {
		return DefaultCatalog(), nil
	}
	return tracks, nil
}

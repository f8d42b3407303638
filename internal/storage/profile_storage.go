package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/haskel/goblin/internal/profile"
	"github.com/haskel/goblin/internal/profileio"
)

// Saveable is an object that can serialize itself to a writer.
type Saveable interface {
	Save(w io.Writer) error
}

// Loadable is an object that can populate itself from a reader.
type Loadable interface {
	Load(r io.Reader) error
}

// ProfileStorage persists a profile.Profile as a single JSON file under
// dataDir, using the atomic write-then-rename pattern so a crash mid-flush
// never leaves a truncated file on disk.
type ProfileStorage struct {
	storage  *Storage
	fileName string
}

// NewProfileStorage creates a ProfileStorage backed by s, writing to
// fileName within s's data directory.
func NewProfileStorage(s *Storage, fileName string) *ProfileStorage {
	return &ProfileStorage{storage: s, fileName: fileName}
}

type profileCodec struct {
	p *profile.Profile
}

func (c profileCodec) Save(w io.Writer) error { return profileio.Save(w, c.p) }
func (c profileCodec) Load(r io.Reader) error { return profileio.Load(r, c.p) }

// SaveProfile writes p to disk atomically.
func (ps *ProfileStorage) SaveProfile(p *profile.Profile) error {
	return ps.saveLocked(profileCodec{p})
}

// LoadProfile reads a previously saved profile into p. If no file exists
// yet, p is left untouched and no error is returned.
func (ps *ProfileStorage) LoadProfile(p *profile.Profile) error {
	return ps.loadLocked(profileCodec{p})
}

func (ps *ProfileStorage) saveLocked(model Saveable) error {
	ps.storage.mu.Lock()
	defer ps.storage.mu.Unlock()

	if err := os.MkdirAll(ps.storage.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	filePath := filepath.Join(ps.storage.dataDir, ps.fileName)
	tempPath := filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := model.Save(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	ps.storage.logger.Debug("saved profile to disk", "path", filePath)
	return nil
}

func (ps *ProfileStorage) loadLocked(model Loadable) error {
	ps.storage.mu.Lock()
	defer ps.storage.mu.Unlock()

	filePath := filepath.Join(ps.storage.dataDir, ps.fileName)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			ps.storage.logger.Info("no existing profile file, starting fresh", "path", filePath)
			return nil
		}
		return fmt.Errorf("failed to open profile file: %w", err)
	}
	defer file.Close()

	if err := model.Load(file); err != nil {
		ps.storage.logger.Warn("failed to load profile, starting fresh", "error", err)
		return nil
	}

	ps.storage.logger.Info("loaded profile from disk", "path", filePath)
	return nil
}

// Exists returns whether a saved profile file exists.
func (ps *ProfileStorage) Exists() bool {
	filePath := filepath.Join(ps.storage.dataDir, ps.fileName)
	_, err := os.Stat(filePath)
	return err == nil
}

// Info describes the on-disk state of the saved profile.
type Info struct {
	Exists    bool
	Path      string
	Size      int64
	UpdatedAt time.Time
}

// GetInfo returns metadata about the saved profile file.
func (ps *ProfileStorage) GetInfo() Info {
	filePath := filepath.Join(ps.storage.dataDir, ps.fileName)
	info := Info{Path: filePath}

	stat, err := os.Stat(filePath)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}

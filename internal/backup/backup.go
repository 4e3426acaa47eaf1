// Package backup keeps timestamped copies of the persisted workout document
// and restores them. Each backup is a directory under <data_dir>/backups
// holding the document and a manifest with counts taken at backup time.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"liftlog/internal/fsutil"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	"github.com/elliotchance/pie/v2"
)

// Format constants.
const (
	ManifestVersion = "1"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// DataFile is the document that gets backed up, as written by storage.FileKV.
var DataFile = storage.CollectionKey + ".json"

var (
	// ErrNothingToBackup is returned when the data directory has no document.
	ErrNothingToBackup = errors.New("no workout data to back up")
	// ErrNoBackups is returned by RestoreLatest when no backup exists.
	ErrNoBackups = errors.New("no backups available")
)

// Stats counts what a backup holds.
type Stats struct {
	Groups         int `json:"groups"`
	Exercises      int `json:"exercises"`
	HistoryEntries int `json:"history_entries"`
}

// Manifest describes one backup.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Files      []string  `json:"files"`
	Stats      Stats     `json:"stats"`
}

// Info summarizes a backup for listing.
type Info struct {
	Name      string // Directory name, e.g. 2024-03-05_093000_042
	Path      string
	CreatedAt time.Time
	Stats     Stats
}

// Manager creates, lists and restores backups of one data directory.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
	now        func() time.Time
}

// NewManager creates a manager for dataDir.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
func (m *Manager) SetNowFunc(now func() time.Time) {
	m.now = now
}

func (m *Manager) dataPath() string {
	return filepath.Join(m.dataDir, DataFile)
}

// Create copies the current document into a new backup and returns its name.
func (m *Manager) Create() (string, error) {
	data, err := os.ReadFile(m.dataPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNothingToBackup
		}
		return "", fmt.Errorf("failed to read %s: %w", DataFile, err)
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name, backupPath, createdAt, err := m.reserve()
	if err != nil {
		return "", err
	}

	if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, DataFile), data, 0600); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to copy %s: %w", DataFile, err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  createdAt,
		AppVersion: m.appVersion,
		Files:      []string{DataFile},
		Stats:      statsFor(data),
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	slog.Info("Backup created", "name", name, "groups", manifest.Stats.Groups)
	return name, nil
}

// reserve creates a fresh backup directory named after the clock. Two
// backups within the same millisecond get consecutive names.
func (m *Manager) reserve() (name, path string, createdAt time.Time, err error) {
	createdAt = m.now().Truncate(time.Millisecond)
	for range 1000 {
		name = formatName(createdAt)
		path = filepath.Join(m.backupDir, name)
		err = os.Mkdir(path, 0700)
		if err == nil {
			return name, path, createdAt, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", time.Time{}, fmt.Errorf("failed to create backup: %w", err)
		}
		createdAt = createdAt.Add(time.Millisecond)
	}
	return "", "", time.Time{}, fmt.Errorf("failed to create backup: %w", err)
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	return pie.SortUsing(backups, func(a, b Info) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

// Get returns one backup by name.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); err != nil {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

// info reads the manifest, falling back to the directory name's timestamp
// for backups whose manifest is missing.
func (m *Manager) info(name string) (*Info, error) {
	path := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
	}

	return &Info{
		Name:      name,
		Path:      path,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Restore replaces the current document with the one in backup name. The
// backup is decoded first so a damaged backup never overwrites good data,
// and the current document is saved as a safety backup. It returns the
// safety backup's name, empty when there was nothing to save.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	src := filepath.Join(m.backupDir, name, DataFile)
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("backup not found: %s", name)
		}
		return "", fmt.Errorf("failed to read backup %s: %w", name, err)
	}
	if _, err := storage.Decode(data); err != nil {
		return "", fmt.Errorf("backup %s is invalid: %w", name, err)
	}

	safety, err := m.Create()
	if err != nil && !errors.Is(err, ErrNothingToBackup) {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	if err := os.MkdirAll(m.dataDir, 0700); err != nil {
		return safety, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(m.dataPath(), data, 0600); err != nil {
		return safety, fmt.Errorf("failed to restore %s (safety backup: %s): %w", DataFile, safety, err)
	}

	slog.Info("Backup restored", "name", name, "safety_backup", safety)
	return safety, nil
}

// RestoreLatest restores the newest backup and returns its name and the
// safety backup's name.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", ErrNoBackups
	}
	restored = backups[0].Name
	safety, err = m.Restore(restored)
	return restored, safety, err
}

// Delete removes one backup.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune deletes all but the keep newest backups and returns how many went.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// =============================================================================
// Helpers
// =============================================================================

// statsFor counts the document's content. An undecodable document counts as
// empty; it is still backed up as is.
func statsFor(data []byte) Stats {
	c, err := storage.Decode(data)
	if err != nil {
		slog.Warn("Backing up a document that does not decode", "error", err)
		return Stats{}
	}
	return countCollection(c)
}

func countCollection(c workout.Collection) Stats {
	return Stats{
		Groups:         len(c),
		Exercises:      c.ExerciseCount(),
		HistoryEntries: c.HistoryCount(),
	}
}

func formatName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/int(time.Millisecond))
}

// parseName reads the timestamp out of a backup name. Names without the
// millisecond suffix are accepted too.
func parseName(name string) (time.Time, error) {
	base, rest, ok := strings.Cut(name, "_")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid backup name: %q", name)
	}
	clock, msPart, hasMS := strings.Cut(rest, "_")

	t, err := time.ParseInLocation(nameLayout, base+"_"+clock, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if !hasMS {
		return t, nil
	}
	n, err := strconv.Atoi(msPart)
	if err != nil || len(msPart) != 3 || n < 0 {
		return time.Time{}, fmt.Errorf("invalid milliseconds in %q", name)
	}
	return t.Add(time.Duration(n) * time.Millisecond), nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

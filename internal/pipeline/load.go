package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-university-etl/internal/model"
)

const (
	snapshotFile = "universities.json"
	tabularFile  = "universities.csv"
	backupPrefix = "universities_"
)

// csvHeader is the fixed column order of the tabular rendering.
var csvHeader = []string{"id", "name", "country", "alphaCode", "stateProvince", "domains", "webPages", "lastUpdated"}

// Loader persists transform batches to the primary store (a structured
// JSON snapshot plus a derived CSV) with a backup-before-overwrite
// step.
type Loader struct {
	DataDir   string
	BackupDir string

	// BackupRetention is the number of newest backups kept; 0 keeps
	// everything.
	BackupRetention int
}

func NewLoader(dataDir, backupDir string, retention int) *Loader {
	return &Loader{DataDir: dataDir, BackupDir: backupDir, BackupRetention: retention}
}

func (l *Loader) SnapshotPath() string { return filepath.Join(l.DataDir, snapshotFile) }

func (l *Loader) CSVPath() string { return filepath.Join(l.DataDir, tabularFile) }

// Save replaces the live snapshot with the given batch. The previous
// snapshot, if any, is copied verbatim into the backup directory first;
// a failed backup is logged and never blocks the save.
func (l *Loader) Save(batch model.TransformBatch) (model.SaveResult, error) {
	if err := os.MkdirAll(l.DataDir, 0755); err != nil {
		return model.SaveResult{}, &model.LoadError{Op: "create data directory", Err: err}
	}
	if err := os.MkdirAll(l.BackupDir, 0755); err != nil {
		return model.SaveResult{}, &model.LoadError{Op: "create backup directory", Err: err}
	}

	if err := l.backupExisting(); err != nil {
		log.Printf("load: backup failed (continuing): %v", err)
	}

	snapshot := model.Snapshot{
		SavedAt:     time.Now().UTC(),
		RecordCount: len(batch.Records),
		Batch:       batch,
	}
	if err := l.writeSnapshot(snapshot); err != nil {
		return model.SaveResult{}, err
	}

	locations := []string{l.SnapshotPath()}
	if len(batch.Records) > 0 {
		if err := l.writeCSV(batch.Records); err != nil {
			return model.SaveResult{}, err
		}
		locations = append(locations, l.CSVPath())
	}

	log.Printf("load: %d records written to %s", len(batch.Records), strings.Join(locations, ", "))
	return model.SaveResult{RecordsLoaded: len(batch.Records), Locations: locations}, nil
}

// Read returns the live snapshot, model.ErrNoSnapshot when none has
// been written yet, and the underlying error for anything else.
func (l *Loader) Read() (*model.Snapshot, error) {
	data, err := os.ReadFile(l.SnapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// backupExisting copies the live snapshot into the backup directory
// under a unix-nano name, collision-free by construction.
func (l *Loader) backupExisting() error {
	data, err := os.ReadFile(l.SnapshotPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read current snapshot: %w", err)
	}

	name := fmt.Sprintf("%s%d.json", backupPrefix, time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(l.BackupDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", name, err)
	}

	l.pruneBackups()
	return nil
}

// pruneBackups drops the oldest backups beyond BackupRetention.
func (l *Loader) pruneBackups() {
	if l.BackupRetention <= 0 {
		return
	}

	entries, err := os.ReadDir(l.BackupDir)
	if err != nil {
		log.Printf("load: failed to list backups: %v", err)
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= l.BackupRetention {
		return
	}

	// unix-nano names of equal width sort chronologically
	sort.Strings(names)
	for _, name := range names[:len(names)-l.BackupRetention] {
		if err := os.Remove(filepath.Join(l.BackupDir, name)); err != nil {
			log.Printf("load: failed to prune backup %s: %v", name, err)
		}
	}
}

// writeSnapshot fully replaces the primary snapshot via a temp file and
// rename, so readers never observe a half-written file.
func (l *Loader) writeSnapshot(snapshot model.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return &model.LoadError{Op: "encode snapshot", Err: err}
	}

	tmp := l.SnapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return &model.LoadError{Op: "write snapshot", Err: err}
	}
	if err := os.Rename(tmp, l.SnapshotPath()); err != nil {
		return &model.LoadError{Op: "replace snapshot", Err: err}
	}
	return nil
}

func (l *Loader) writeCSV(records []model.University) error {
	data, err := RenderCSV(records)
	if err != nil {
		return &model.LoadError{Op: "render csv", Err: err}
	}
	if err := os.WriteFile(l.CSVPath(), data, 0644); err != nil {
		return &model.LoadError{Op: "write csv", Err: err}
	}
	return nil
}

// RenderCSV produces the flat tabular rendering of a record set with
// the fixed column order. Multi-valued fields are joined with ";";
// quoting and quote-doubling follow the standard tabular escaping rule.
func RenderCSV(records []model.University) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, u := range records {
		row := []string{
			u.ID,
			u.Name,
			u.Country,
			optString(u.AlphaCode),
			optString(u.StateProvince),
			strings.Join(u.Domains, ";"),
			strings.Join(u.WebPages, ";"),
			u.LastUpdated.Format(time.RFC3339Nano),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush: %w", err)
	}
	return buf.Bytes(), nil
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

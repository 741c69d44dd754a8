// Package favorites keeps an append-only CSV log of tracks marked from the device.
package favorites

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/genricoloni/decksync/internal/domain"
	"go.uber.org/zap"
)

const tailChunk = 4096

var header = []string{"Title", "Artist", "Album"}

// Recorder appends favorites to a CSV file, skipping an entry identical to
// the last one. The file is opened and closed on every write.
type Recorder struct {
	logger *zap.Logger
	path   string
	mu     sync.Mutex
}

// NewRecorder creates a recorder writing to the configured favorites path
func NewRecorder(logger *zap.Logger, cfg domain.Config) *Recorder {
	return &Recorder{
		logger: logger,
		path:   cfg.GetFavoritesPath(),
	}
}

// Record appends f unless the last record holds the same triple
func (r *Recorder) Record(f domain.Favorite) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fields := []string{clean(f.Title), clean(f.Artist), clean(f.Album)}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return false, &domain.PersistenceError{Path: r.path, Err: err}
	}

	file, err := os.OpenFile(r.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return false, &domain.PersistenceError{Path: r.path, Err: err}
	}
	defer file.Close()

	last, size, err := lastLine(file)
	if err != nil {
		return false, &domain.PersistenceError{Path: r.path, Err: err}
	}

	var out strings.Builder
	if size == 0 {
		out.WriteString(encodeRecord(header))
	} else {
		if prev, ok := parseRecord(last); ok && equalFields(prev, fields) {
			r.logger.Debug("Favorite already recorded", zap.String("title", f.Title))
			return false, nil
		}
		if !strings.HasSuffix(last, "\n") && last != "" {
			out.WriteString("\n")
		}
	}
	out.WriteString(encodeRecord(fields))

	if _, err := file.WriteString(out.String()); err != nil {
		return false, &domain.PersistenceError{Path: r.path, Err: err}
	}

	r.logger.Info("Favorite recorded",
		zap.String("title", f.Title),
		zap.String("artist", f.Artist),
		zap.String("album", f.Album),
		zap.String("path", r.path))
	return true, nil
}

// lastLine returns the last non-empty line (with its trailing newline, if
// any) and the file size. Only the tail of the file is read.
func lastLine(f *os.File) (string, int64, error) {
	info, err := f.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("stat: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return "", 0, nil
	}

	var tail []byte
	for offset := size; offset > 0; {
		n := int64(tailChunk)
		if offset < n {
			n = offset
		}
		offset -= n

		chunk := make([]byte, n)
		if _, err := f.ReadAt(chunk, offset); err != nil && !errors.Is(err, io.EOF) {
			return "", size, fmt.Errorf("read tail: %w", err)
		}
		tail = append(chunk, tail...)

		trimmed := strings.TrimRight(string(tail), "\r\n")
		if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 || offset == 0 {
			return string(tail)[i+1:], size, nil
		}
	}
	return string(tail), size, nil
}

func parseRecord(line string) ([]string, bool) {
	fields, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, false
	}
	return fields, true
}

// encodeRecord quotes every field and doubles embedded quotes
func encodeRecord(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}

// clean keeps each record on one line
func clean(s string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Package handlog persists per-game event histories as JSON documents. One
// file per game, rewritten atomically after every flush so a crash never
// leaves a partial history on disk.
package handlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cardroomlabs/holdem/internal/game"
)

// Entry is one recorded event.
type Entry struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Event     any       `json:"event"`
}

// Hand groups the entries of a single hand.
type Hand struct {
	HandNumber int     `json:"handNumber"`
	Entries    []Entry `json:"entries"`
}

// History is the on-disk document for one game.
type History struct {
	GameID string  `json:"gameId"`
	Hands  []Hand  `json:"hands"`
	Setup  []Entry `json:"setup,omitempty"` // events before the first hand
}

// Log buffers histories in memory until they are flushed. Safe for
// concurrent use; Record can serve as a manager sink.
type Log struct {
	dir string

	mu    sync.Mutex
	games map[string]*History
}

// New creates a log that writes under dir.
func New(dir string) *Log {
	return &Log{dir: dir, games: make(map[string]*History)}
}

// Record appends events to the game's history. A HandStarted event opens a
// new hand; events before any hand are kept as setup.
func (l *Log) Record(gameID string, events []game.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.games[gameID]
	if h == nil {
		h = &History{GameID: gameID}
		l.games[gameID] = h
	}

	for _, e := range events {
		entry := Entry{Kind: string(e.Kind()), Timestamp: e.Timestamp(), Event: e}
		if started, ok := e.(game.HandStarted); ok {
			h.Hands = append(h.Hands, Hand{HandNumber: started.HandNumber})
		}
		if len(h.Hands) == 0 {
			h.Setup = append(h.Setup, entry)
			continue
		}
		last := &h.Hands[len(h.Hands)-1]
		last.Entries = append(last.Entries, entry)
	}
}

// Flush writes one game's history to <dir>/<gameID>.json.
func (l *Log) Flush(gameID string) error {
	l.mu.Lock()
	h, ok := l.games[gameID]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("handlog: no history for game %q", gameID)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("handlog: encode %s: %w", gameID, err)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("handlog: %w", err)
	}
	return writeFileAtomic(filepath.Join(l.dir, gameID+".json"), data, 0o644)
}

// FlushAll writes every buffered history, stopping at the first error.
func (l *Log) FlushAll() error {
	l.mu.Lock()
	ids := make([]string, 0, len(l.games))
	for id := range l.games {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	for _, id := range ids {
		if err := l.Flush(id); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes via a temp file in the same directory followed by a
// rename, so readers see either the old document or the new one, never a
// partial write.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("handlog: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("handlog: write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("handlog: sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("handlog: close %s: %w", tmpPath, err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("handlog: chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("handlog: rename %s: %w", tmpPath, err)
	}
	return nil
}

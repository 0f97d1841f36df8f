package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
)

var (
	ErrNotRegistered = errors.New("artisan not registered")
	ErrInvalidScore  = errors.New("score must be between 1 and 5")
)

// snapshot is the on-disk layout: three collections keyed by stringified
// artisan id. Ratings and comments are parallel lists of equal length.
type snapshot struct {
	Artisans map[string]Artisan  `json:"artisans"`
	Ratings  map[string][]int    `json:"ratings"`
	Comments map[string][]string `json:"comments"`
}

// Store owns every directory collection. All access goes through its mutex;
// each mutation rewrites the snapshot file via temp-file + rename.
type Store struct {
	mu       sync.Mutex
	path     string
	artisans map[int64]Artisan
	order    []int64
	ratings  map[int64][]int
	comments map[int64][]string
}

// Open loads the snapshot at path. A missing or empty file is a fresh
// directory, not an error.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		artisans: make(map[int64]Artisan),
		ratings:  make(map[int64][]int),
		comments: make(map[int64][]string),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return s, nil
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("corrupt directory snapshot %s: %w", path, err)
	}

	for key, a := range snap.Artisans {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad artisan key %q in %s: %w", key, path, err)
		}
		a.ID = id
		s.artisans[id] = a
		s.order = append(s.order, id)
	}
	// Stable iteration order across restarts.
	sort.Slice(s.order, func(i, j int) bool { return s.order[i] < s.order[j] })

	for key, scores := range snap.Ratings {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad rating key %q in %s: %w", key, path, err)
		}
		s.ratings[id] = scores
		comments := snap.Comments[key]
		for len(comments) < len(scores) {
			comments = append(comments, "")
		}
		s.comments[id] = comments
	}
	return s, nil
}

// RegisterOrUpdate replaces the profile for id, keeping its JobsDone count.
func (s *Store) RegisterOrUpdate(id int64, name, job, level, price string) Artisan {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := Artisan{ID: id, Name: name, Job: job, Level: level, Price: price}
	if prev, ok := s.artisans[id]; ok {
		a.JobsDone = prev.JobsDone
	} else {
		s.order = append(s.order, id)
	}
	s.artisans[id] = a
	s.flush()
	return a
}

// Withdraw removes the profile and its rating history. Idempotent.
func (s *Store) Withdraw(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artisans[id]; !ok {
		return
	}
	delete(s.artisans, id)
	delete(s.ratings, id)
	delete(s.comments, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.flush()
}

// Get returns the profile for id.
func (s *Store) Get(id int64) (Artisan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.artisans[id]
	return a, ok
}

// RecordRating appends a score and its comment (possibly empty) for the
// artisan and bumps the completed-job counter.
func (s *Store) RecordRating(id int64, score int, comment string) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.artisans[id]
	if !ok {
		return ErrNotRegistered
	}
	s.ratings[id] = append(s.ratings[id], score)
	s.comments[id] = append(s.comments[id], comment)
	a.JobsDone++
	s.artisans[id] = a
	s.flush()
	return nil
}

// AverageRating returns the mean score for id. ok is false when the artisan
// has no ratings yet; callers render that case distinctly instead of a
// number.
func (s *Store) AverageRating(id int64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.averageLocked(id)
}

func (s *Store) averageLocked(id int64) (float64, bool) {
	scores := s.ratings[id]
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	return float64(sum) / float64(len(scores)), true
}

// Comments returns the recorded comments for id, blanks filtered out.
func (s *Store) Comments(id int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, c := range s.comments[id] {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// flush rewrites the snapshot. Called with the mutex held. A failed write is
// logged and retried implicitly on the next mutation; the in-memory state
// stays authoritative either way.
func (s *Store) flush() {
	snap := snapshot{
		Artisans: make(map[string]Artisan, len(s.artisans)),
		Ratings:  make(map[string][]int, len(s.ratings)),
		Comments: make(map[string][]string, len(s.comments)),
	}
	for id, a := range s.artisans {
		snap.Artisans[strconv.FormatInt(id, 10)] = a
	}
	for id, scores := range s.ratings {
		snap.Ratings[strconv.FormatInt(id, 10)] = scores
	}
	for id, comments := range s.comments {
		snap.Comments[strconv.FormatInt(id, 10)] = comments
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("[directory] snapshot encode failed: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.Printf("[directory] snapshot dir failed: %v", err)
		return
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		log.Printf("[directory] snapshot write failed: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("[directory] snapshot rename failed: %v", err)
	}
}

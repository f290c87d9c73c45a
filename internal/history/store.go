package history

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// Store keeps the set of filing links already processed, persisted as a JSON
// list. Retention is capacity-bounded: Save drops the oldest links beyond
// MaxEntries. Not designed for concurrent writer processes; one scheduler
// instance at a time is the caller discipline.
type Store struct {
	mu         sync.Mutex
	filePath   string
	maxEntries int
	seen       map[string]struct{}
	order      []string // insertion order, oldest first
}

// NewStore loads the history file. A missing or corrupt file degrades to an
// empty set so a bad history never crashes a run.
func NewStore(filePath string, maxEntries int) *Store {
	s := &Store{
		filePath:   filePath,
		maxEntries: maxEntries,
		seen:       make(map[string]struct{}),
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] history: read %s: %v, starting empty", filePath, err)
		}
		return s
	}

	var links []string
	if err := json.Unmarshal(data, &links); err != nil {
		log.Printf("[WARN] history: corrupt file %s: %v, starting empty", filePath, err)
		return s
	}
	for _, link := range links {
		s.add(link)
	}
	return s
}

// Contains reports whether a filing link was already processed.
func (s *Store) Contains(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[link]
	return ok
}

// Add marks a filing link as processed. Duplicates are ignored.
func (s *Store) Add(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(link)
}

func (s *Store) add(link string) {
	if _, ok := s.seen[link]; ok {
		return
	}
	s.seen[link] = struct{}{}
	s.order = append(s.order, link)
}

// Len returns the number of tracked links.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Save truncates to the newest MaxEntries links and writes the file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries > 0 && len(s.order) > s.maxEntries {
		evicted := s.order[:len(s.order)-s.maxEntries]
		for _, link := range evicted {
			delete(s.seen, link)
		}
		s.order = append([]string(nil), s.order[len(s.order)-s.maxEntries:]...)
	}

	data, err := json.MarshalIndent(s.order, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// Package catalog loads and queries the static task catalog.
// The backing JSON file is reread on every call so out-of-band edits
// show up on the next lookup; there is no in-memory cache.
package catalog

import (
	"encoding/json"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Task is a single catalog entry describing a government/legal procedure.
type Task struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	TaskID          string          `json:"task_id,omitempty"`
	ApplicationMode ApplicationMode `json:"application_mode,omitempty"`
}

// ApplicationMode describes how a task can be applied for.
type ApplicationMode struct {
	Online  *ModeDetail `json:"online,omitempty"`
	Offline *ModeDetail `json:"offline,omitempty"`
}

// ModeDetail holds the availability flag and ordered application steps.
type ModeDetail struct {
	Available bool     `json:"available"`
	Steps     []string `json:"steps,omitempty"`
}

type catalogFile struct {
	Tasks []Task `json:"tasks"`
}

// Store reads tasks from a JSON file at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// LoadAll returns every valid task in catalog order. A missing,
// unreadable, or malformed file degrades to an empty slice; the cause
// is logged but never propagated, since an empty catalog is a valid
// state for callers. Entries without a title are skipped at load time.
func (s *Store) LoadAll() []Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("catalog file not found", zap.String("path", s.path))
		} else {
			s.logger.Error("catalog file unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}

	var cf catalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		s.logger.Error("catalog file malformed", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	tasks := make([]Task, 0, len(cf.Tasks))
	for i, t := range cf.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			s.logger.Warn("skipping catalog entry without title", zap.Int("index", i))
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// FindByName returns the first task whose title contains query as a
// case-insensitive substring, in catalog order. An empty query matches
// the first task, since every title contains the empty substring.
func (s *Store) FindByName(query string) *Task {
	q := strings.ToLower(query)
	for _, t := range s.LoadAll() {
		if strings.Contains(strings.ToLower(t.Title), q) {
			task := t
			return &task
		}
	}
	return nil
}

// FindByID returns the first task whose TaskID equals id, or nil.
func (s *Store) FindByID(id string) *Task {
	for _, t := range s.LoadAll() {
		if t.TaskID == id {
			task := t
			return &task
		}
	}
	return nil
}

// ListTitles returns all titles in catalog order.
func (s *Store) ListTitles() []string {
	tasks := s.LoadAll()
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}
	return titles
}

// OnlineAvailable reports whether the task can be applied for online.
func OnlineAvailable(t *Task) bool {
	return t != nil && t.ApplicationMode.Online != nil && t.ApplicationMode.Online.Available
}

// OfflineAvailable reports whether the task can be applied for in person.
func OfflineAvailable(t *Task) bool {
	return t != nil && t.ApplicationMode.Offline != nil && t.ApplicationMode.Offline.Available
}

// Steps returns the application steps for mode ("online" or "offline"),
// or nil when the mode is absent.
func Steps(t *Task, mode string) []string {
	if t == nil {
		return nil
	}
	switch mode {
	case "online":
		if t.ApplicationMode.Online != nil {
			return t.ApplicationMode.Online.Steps
		}
	case "offline":
		if t.ApplicationMode.Offline != nil {
			return t.ApplicationMode.Offline.Steps
		}
	}
	return nil
}

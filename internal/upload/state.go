package upload

import (
	"fmt"
	"sync"

	"kinovek-client/internal/domain"
)

// State holds the single candidate file a screen may carry, the drag-hover
// flag and the last validation error. Every mutating operation re-runs the
// validator before touching the current file, so the file slot only ever
// holds something that most recently passed validation.
type State struct {
	cfg      domain.UploadConfiguration
	notifier domain.Notifier

	// resetPicker stands in for resetting the file-picker control. It runs
	// after every selection attempt and on Clear, so reselecting the
	// identical file re-triggers validation instead of being suppressed.
	resetPicker func()

	mu        sync.Mutex
	current   *domain.CandidateFile
	dragging  bool
	lastError string
}

// StateOption configures a State.
type StateOption func(*State)

// WithPickerReset installs the hook that resets the underlying file-picker
// control.
func WithPickerReset(reset func()) StateOption {
	return func(s *State) {
		s.resetPicker = reset
	}
}

// NewState creates the upload state for one screen visit.
func NewState(cfg domain.UploadConfiguration, notifier domain.Notifier, opts ...StateOption) *State {
	s := &State{
		cfg:      cfg,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select validates the candidate and, on acceptance, replaces the current
// file (no confirmation; selecting a new file silently drops the previous
// one). On rejection the current file is left untouched and the rejection
// message becomes the last error.
func (s *State) Select(candidate *domain.CandidateFile) domain.ValidationOutcome {
	if s.resetPicker != nil {
		defer s.resetPicker()
	}

	outcome := Validate(candidate, s.cfg)

	s.mu.Lock()
	if outcome.Accepted {
		s.current = candidate
		s.lastError = ""
	} else {
		s.lastError = outcome.Message
	}
	s.mu.Unlock()

	if s.notifier != nil {
		if outcome.Accepted {
			s.notifier.Success(fmt.Sprintf("%q (%s) ready", candidate.Name, FormatFileSize(candidate.Size())))
		} else {
			s.notifier.Error(outcome.Message)
		}
	}
	return outcome
}

// BeginDrag marks the drop zone as hovered. Purely presentational.
func (s *State) BeginDrag() {
	s.mu.Lock()
	s.dragging = true
	s.mu.Unlock()
}

// EndDrag clears the hover flag.
func (s *State) EndDrag() {
	s.mu.Lock()
	s.dragging = false
	s.mu.Unlock()
}

// Clear drops the current file and the last error unconditionally and
// resets the picker control.
func (s *State) Clear() {
	s.mu.Lock()
	s.current = nil
	s.lastError = ""
	s.mu.Unlock()

	if s.resetPicker != nil {
		s.resetPicker()
	}
}

// File returns the currently held file, or nil.
func (s *State) File() *domain.CandidateFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsDragging reports the drag-hover flag.
func (s *State) IsDragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// LastError returns the message of the most recent rejection, or "".
func (s *State) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Configuration returns the immutable limits this state validates against.
func (s *State) Configuration() domain.UploadConfiguration {
	return s.cfg
}

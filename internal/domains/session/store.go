package session

import (
	"errors"
	"sync"

	"github.com/xpanvictor/voxqa/internal/types"
)

var ErrTaskInFlight = errors.New("a task is already being processed")

const previewRunes = 50

// Store is the process wide processing session. Readers may call from any
// goroutine; only the coordinator writes.
type Store struct {
	mu                sync.RWMutex
	active            bool
	currentAudioFile  string
	lastProcessedFile string
	retryCount        int
	cancelled         bool
	lastQuestion      string
	hasLastQuestion   bool
}

func New() *Store {
	return &Store{}
}

// Acquire claims the session for a task on audioFile. It fails while another
// task holds the session. A stale cancel flag is cleared under the same lock,
// so any Cancel that follows a successful Acquire belongs to the new task.
// Reprocessing keeps the retry count.
func (s *Store) Acquire(audioFile string, reprocess bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrTaskInFlight
	}
	s.active = true
	s.cancelled = false
	if !reprocess {
		s.retryCount = 0
	}
	s.currentAudioFile = audioFile
	s.lastProcessedFile = audioFile
	return nil
}

func (s *Store) Release() {
	s.mu.Lock()
	s.active = false
	s.currentAudioFile = ""
	s.mu.Unlock()
}

func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Store) CurrentAudioFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentAudioFile
}

func (s *Store) LastProcessedFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastProcessedFile
}

func (s *Store) RetryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retryCount
}

func (s *Store) SetRetryCount(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	s.retryCount = n
	s.mu.Unlock()
}

// Cancel sets the cancellation flag and reports whether it was already set.
func (s *Store) Cancel() (already bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	already = s.cancelled
	s.cancelled = true
	return already
}

func (s *Store) Cancelled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancelled
}

// LastQuestion returns the stored question and whether one exists.
func (s *Store) LastQuestion() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuestion, s.hasLastQuestion
}

func (s *Store) SetLastQuestion(q string) {
	s.mu.Lock()
	s.lastQuestion = q
	s.hasLastQuestion = true
	s.mu.Unlock()
}

// Snapshot is a pure read used by status queries.
func (s *Store) Snapshot() types.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := types.Status{
		IsRecording:       s.active,
		CurrentFile:       s.currentAudioFile,
		LastProcessedFile: s.lastProcessedFile,
		HasLastQuestion:   s.hasLastQuestion,
	}
	if s.hasLastQuestion {
		st.LastQuestionPreview = Preview(s.lastQuestion)
	}
	return st
}

// Preview truncates to the first 50 runes and appends an ellipsis.
func Preview(q string) string {
	r := []rune(q)
	if len(r) <= previewRunes {
		return q
	}
	return string(r[:previewRunes]) + "..."
}

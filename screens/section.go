package screens

import (
	"errors"
	"fmt"
	"sync"

	"sonora/blueprint"

	"go.uber.org/zap"
)

// SectionSnapshot is the rendered state of a section
type SectionSnapshot[T any] struct {
	Status blueprint.SectionStatus `json:"status"`
	Data   T                       `json:"data,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// Section is one independently loading part of a screen: idle -> loading -> ready|error.
// Every fetch is tagged with a generation; only the result of the latest one is applied, and
// nothing is applied once the owning screen has been unmounted.
type Section[T any] struct {
	name     string
	label    string
	notFound string
	owner    *base

	mu     sync.Mutex
	gen    uint64
	status blueprint.SectionStatus
	data   T
	err    error
	msg    string
}

func newSection[T any](owner *base, name, label, notFound string) *Section[T] {
	return &Section[T]{
		name:     name,
		label:    label,
		notFound: notFound,
		owner:    owner,
		status:   blueprint.StatusIdle,
	}
}

// Begin moves the section to loading and returns the generation the result must carry.
// The previous data is kept until the new result arrives.
func (s *Section[T]) Begin() (uint64, bool) {
	s.mu.Lock()
	if !s.owner.alive() {
		s.mu.Unlock()
		return 0, false
	}
	s.gen++
	gen := s.gen
	s.status = blueprint.StatusLoading
	s.err = nil
	s.msg = ""
	s.mu.Unlock()

	s.owner.sectionChanged(s.name, blueprint.StatusLoading, "")
	return gen, true
}

// Resolve stores the result of generation gen. Stale generations are dropped.
func (s *Section[T]) Resolve(gen uint64, data T) bool {
	s.mu.Lock()
	if gen != s.gen || !s.owner.alive() {
		s.mu.Unlock()
		return false
	}
	s.status = blueprint.StatusReady
	s.data = data
	s.err = nil
	s.msg = ""
	s.mu.Unlock()

	s.owner.sectionChanged(s.name, blueprint.StatusReady, "")
	return true
}

// Fail records the failure of generation gen as a user facing message
func (s *Section[T]) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	if gen != s.gen || !s.owner.alive() {
		s.mu.Unlock()
		return false
	}
	msg := s.message(err)
	s.status = blueprint.StatusError
	s.err = err
	s.msg = msg
	s.mu.Unlock()

	s.owner.logger.Warn("[screens][Section][Fail] warning - section failed to load",
		zap.String("section", s.name), zap.Error(err))
	s.owner.sectionChanged(s.name, blueprint.StatusError, msg)
	return true
}

// Update changes the data in place without a status transition. Used to append pages.
func (s *Section[T]) Update(fn func(data T) T) bool {
	s.mu.Lock()
	if !s.owner.alive() {
		s.mu.Unlock()
		return false
	}
	s.data = fn(s.data)
	s.mu.Unlock()

	s.owner.sectionChanged(s.name, blueprint.StatusReady, "")
	return true
}

// Snapshot returns a copy of the section state
func (s *Section[T]) Snapshot() SectionSnapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SectionSnapshot[T]{Status: s.status, Data: s.data, Error: s.msg}
}

// Status returns the current status
func (s *Section[T]) Status() blueprint.SectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Data returns the current data
func (s *Section[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Err returns the error that moved the section to the error state
func (s *Section[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Section[T]) message(err error) string {
	if errors.Is(err, blueprint.ENOTFOUND) && s.notFound != "" {
		return s.notFound
	}
	if errors.Is(err, blueprint.ENETWORK) {
		return fmt.Sprintf("Failed to load %s. Check your connection.", s.label)
	}
	return fmt.Sprintf("Failed to load %s.", s.label)
}

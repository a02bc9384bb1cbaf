package chart

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Instance is a chart attached to a canvas.
type Instance interface {
	Destroy()
}

// Canvas draws a spec and returns the live instance.
type Canvas interface {
	Attach(id string, spec *Spec) (Instance, error)
}

// Slot holds at most one live chart instance for a canvas.
// The previous instance is always destroyed before a new one is attached.
type Slot struct {
	mu      sync.Mutex
	canvas  Canvas
	current Instance
	id      string
	spec    *Spec
}

// NewSlot creates an empty slot for canvas.
func NewSlot(canvas Canvas) *Slot {
	return &Slot{canvas: canvas}
}

// Replace destroys the attached instance, if any, then attaches spec.
// On attach failure the slot is left empty.
func (s *Slot) Replace(spec *Spec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()

	id := uuid.New().String()
	inst, err := s.canvas.Attach(id, spec)
	if err != nil {
		return "", fmt.Errorf("failed to attach chart: %w", err)
	}

	s.current = inst
	s.id = id
	s.spec = spec
	return id, nil
}

// Release destroys the attached instance without replacing it.
func (s *Slot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Slot) releaseLocked() {
	if s.current != nil {
		s.current.Destroy()
	}
	s.current = nil
	s.id = ""
	s.spec = nil
}

// Live reports whether an instance is attached.
func (s *Slot) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Current returns the attached instance id and spec; spec is nil when empty.
func (s *Slot) Current() (string, *Spec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.spec
}

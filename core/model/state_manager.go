// Package model provides the training state machine and model persistence
// shared by nlplearn's trainers.
package model

import (
	"sync"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// State is the lifecycle stage of a trainable model.
type State int

const (
	// Untrained is the initial state and the state after a failed run.
	Untrained State = iota
	// Training means an optimizer run is in progress.
	Training
	// Trained means the weights are final and may be used for prediction.
	Trained
)

func (s State) String() string {
	switch s {
	case Untrained:
		return "UNTRAINED"
	case Training:
		return "TRAINING"
	case Trained:
		return "TRAINED"
	default:
		return "UNKNOWN"
	}
}

// StateManager manages the UNTRAINED -> TRAINING -> TRAINED lifecycle in a
// thread-safe manner. Trainers embed it by composition.
type StateManager struct {
	mu    sync.RWMutex
	state State
}

// NewStateManager creates a new StateManager in the Untrained state.
func NewStateManager() *StateManager {
	return &StateManager{state: Untrained}
}

// State returns the current lifecycle stage.
func (s *StateManager) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// BeginTraining moves to Training. It fails with ErrAlreadyTraining while
// another run holds the state. Retraining a Trained model is allowed.
func (s *StateManager) BeginTraining() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Training {
		return errors.WithStack(errors.ErrAlreadyTraining)
	}
	s.state = Training
	return nil
}

// FinishTraining moves to Trained.
func (s *StateManager) FinishTraining() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Trained
}

// AbortTraining returns to Untrained after a failed or cancelled run.
func (s *StateManager) AbortTraining() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Untrained
}

// IsFitted reports whether the state is Trained.
func (s *StateManager) IsFitted() bool {
	return s.State() == Trained
}

// RequireFitted returns a NotFittedError unless the state is Trained.
func (s *StateManager) RequireFitted(modelName, method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}

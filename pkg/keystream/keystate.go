package keystream

import "sync"

// KeyState is the synchronized handle to the generator of one direction.
// Reconfiguration replaces the generator value under the lock, so an engine
// calling NextWord always sees either the old or the new keystream.
type KeyState struct {
	Name string

	lock       sync.Mutex
	gen        Generator
	configured bool
	ready      chan struct{}
}

// NewKeyState creates an unconfigured key state.
func NewKeyState(name string) *KeyState {
	return &KeyState{Name: name, ready: make(chan struct{})}
}

// Configure validates config and replaces the generator.
// On error the current generator is left untouched.
func (s *KeyState) Configure(config Config) ([]string, error) {
	gen, warnings, err := Setup(config)
	if err != nil {
		return warnings, err
	}
	s.lock.Lock()
	s.gen = gen
	if !s.configured {
		s.configured = true
		close(s.ready)
	}
	s.lock.Unlock()
	return warnings, nil
}

// Ready is closed once the first configuration succeeds.
func (s *KeyState) Ready() <-chan struct{} {
	return s.ready
}

// IsConfigured indicates a configuration has been applied.
func (s *KeyState) IsConfigured() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.configured
}

// NextWord returns the next keystream word.
func (s *KeyState) NextWord() (uint32, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.gen.NextWord()
}

// Snapshot returns a copy of the generator state.
func (s *KeyState) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.gen.State()
}

package interest

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Store persists serialized visitor state. Load returns (nil, nil) for a
// visitor with no stored state. Implementations live elsewhere so the
// reducer and tracker stay testable against an in-memory fake.
type Store interface {
	Load(id string) ([]byte, error)
	Save(id string, data []byte) error
}

// Tracker manages per-visitor interest state on top of a Store. State is
// written back after every transition, so in-memory and persisted state only
// diverge during the write itself.
type Tracker struct {
	store   Store
	profile *Profile
	log     *zap.Logger
}

func NewTracker(store Store, profile *Profile, log *zap.Logger) *Tracker {
	if profile == nil {
		profile = DefaultProfile()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, profile: profile, log: log}
}

func (t *Tracker) Profile() *Profile { return t.profile }

// Get loads a visitor's state. Unreadable or corrupt stored state is logged
// and replaced by the default; a visitor never sees an error, worst case a
// reset personalization.
func (t *Tracker) Get(id string) State {
	data, err := t.store.Load(id)
	if err != nil {
		t.log.Warn("loading interest state", zap.String("visitor", id), zap.Error(err))
		return NewState()
	}
	if data == nil {
		return NewState()
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		t.log.Warn("corrupt interest state, resetting", zap.String("visitor", id), zap.Error(err))
		return NewState()
	}
	if s.TimeOnPages == nil {
		s.TimeOnPages = map[string]int{}
	}
	return s
}

// Apply runs one action through the reducer and persists the result.
func (t *Tracker) Apply(id string, a Action) (State, error) {
	next := Reduce(t.Get(id), a, t.profile)
	data, err := json.Marshal(next)
	if err != nil {
		return next, fmt.Errorf("encode interest state: %w", err)
	}
	if err := t.store.Save(id, data); err != nil {
		return next, fmt.Errorf("save interest state: %w", err)
	}
	return next, nil
}

// PersonalizedCTA derives the CTA label for a visitor's current state.
func (t *Tracker) PersonalizedCTA(id string) string {
	return PersonalizedCTA(t.Get(id), t.profile)
}

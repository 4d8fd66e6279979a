package orchestrator

import (
	"errors"
	"fmt"
	"sync"
)

var ErrSlotBusy = errors.New("action already in flight")

type SlotKind string

const (
	SlotCampaign  SlotKind = "campaign"
	SlotAdSet     SlotKind = "adSet"
	SlotRefine    SlotKind = "refine"
	SlotImageEdit SlotKind = "imageEdit"
	SlotAnimate   SlotKind = "animate"
)

// SlotKey names one action slot. Campaign creation is global, ad set creation
// is scoped to a session and the remaining kinds to an ad set.
type SlotKey struct {
	Kind   SlotKind `json:"kind"`
	Target string   `json:"target,omitempty"`
}

func (k SlotKey) String() string {
	if k.Target == "" {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.Target)
}

func CampaignSlot() SlotKey                { return SlotKey{Kind: SlotCampaign} }
func AdSetSlot(sessionID string) SlotKey   { return SlotKey{Kind: SlotAdSet, Target: sessionID} }
func RefineSlot(adSetID string) SlotKey    { return SlotKey{Kind: SlotRefine, Target: adSetID} }
func ImageEditSlot(adSetID string) SlotKey { return SlotKey{Kind: SlotImageEdit, Target: adSetID} }
func AnimateSlot(adSetID string) SlotKey   { return SlotKey{Kind: SlotAnimate, Target: adSetID} }

// Slots hands out one in-flight token per key.
type Slots struct {
	mu   sync.Mutex
	held map[SlotKey]struct{}
}

func NewSlots() *Slots {
	return &Slots{held: make(map[SlotKey]struct{})}
}

// Acquire takes the token for key. The returned release func is idempotent.
func (s *Slots) Acquire(key SlotKey) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.held[key]; ok {
		return nil, fmt.Errorf("%s: %w", key, ErrSlotBusy)
	}
	s.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.held, key)
			s.mu.Unlock()
		})
	}, nil
}

func (s *Slots) Busy(key SlotKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held[key]
	return ok
}

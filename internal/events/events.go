// Package events holds the static scene graph the player walks through.
package events

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MaxChoices is the number of choice slots the player can act on
const MaxChoices = 6

// ErrEventNotFound is returned when an event id is not in the graph
var ErrEventNotFound = errors.New("event not found")

// EventType describes what kind of scene an event is
type EventType string

const (
	TypeLocation EventType = "location"
	TypeEvent    EventType = "event"
	TypeCombat   EventType = "combat"
	TypeDialogue EventType = "dialogue"
)

// ActionType is what happens when a choice or button is activated
type ActionType string

const (
	ActionNavigate      ActionType = "navigate"
	ActionSkillCheck    ActionType = "skill_check"
	ActionOpenInventory ActionType = "open_inventory"
	ActionCombat        ActionType = "combat"
	ActionAddItem       ActionType = "add_item"
	ActionCustom        ActionType = "custom"
)

// Choice is a player-selectable option on an event. An empty Target means
// the choice does not move the player.
type Choice struct {
	ID     string     `yaml:"id" json:"id"`
	Text   string     `yaml:"text" json:"text"`
	Action ActionType `yaml:"action" json:"action"`
	Target string     `yaml:"target,omitempty" json:"target,omitempty"`
	ItemID string     `yaml:"item,omitempty" json:"item,omitempty"`
}

// ButtonConfig configures the continue or back control
type ButtonConfig struct {
	Text   string     `yaml:"text" json:"text"`
	Action ActionType `yaml:"action" json:"action"`
	Target string     `yaml:"target,omitempty" json:"target,omitempty"`
}

// Navigates reports whether activating the button moves to another event
func (b *ButtonConfig) Navigates() bool {
	return b != nil && b.Action == ActionNavigate && b.Target != ""
}

// Clone returns a copy of the config, nil-safe
func (b *ButtonConfig) Clone() *ButtonConfig {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// Event is one node of the scene graph
type Event struct {
	ID                  string        `yaml:"id"`
	Type                EventType     `yaml:"type"`
	Title               string        `yaml:"title"`
	Description         string        `yaml:"description"`
	Image               string        `yaml:"image"`
	Choices             []Choice      `yaml:"choices"`
	Continue            *ButtonConfig `yaml:"continue"`
	Back                *ButtonConfig `yaml:"back"`
	InventoryAccessible *bool         `yaml:"inventory_accessible,omitempty"`
}

// Text is the body shown for the event: the title and description
// separated by a blank line, or just the description when untitled.
func (e *Event) Text() string {
	if e.Title != "" {
		return e.Title + "\n\n" + e.Description
	}
	return e.Description
}

// IsInventoryAccessible uses the explicit override when present; dialogue
// scenes lock the inventory by default.
func (e *Event) IsInventoryAccessible() bool {
	if e.InventoryAccessible != nil {
		return *e.InventoryAccessible
	}
	return e.Type != TypeDialogue
}

// ActionableChoices returns the choices that fit in the choice slots
func (e *Event) ActionableChoices() []Choice {
	if len(e.Choices) > MaxChoices {
		return e.Choices[:MaxChoices]
	}
	return e.Choices
}

// GraphFile is the layout of events.yaml
type GraphFile struct {
	Events []*Event `yaml:"events"`
}

// Graph is the read-only registry of events keyed by id
type Graph struct {
	byID map[string]*Event
}

// NewGraph indexes events by id, rejecting duplicates and unknown types
func NewGraph(evts []*Event) (*Graph, error) {
	g := &Graph{byID: make(map[string]*Event, len(evts))}
	for _, e := range evts {
		if e == nil {
			continue
		}
		if e.ID == "" {
			return nil, fmt.Errorf("event %q: missing id", e.Title)
		}
		switch e.Type {
		case TypeLocation, TypeEvent, TypeCombat, TypeDialogue:
		default:
			return nil, fmt.Errorf("event %s: unknown type %q", e.ID, e.Type)
		}
		if _, dup := g.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate event id: %s", e.ID)
		}
		g.byID[e.ID] = e
	}
	return g, nil
}

// LoadGraph loads the event graph from a YAML file
func LoadGraph(filename string) (*Graph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read event graph: %w", err)
	}
	return ParseGraph(data)
}

// ParseGraph parses the event graph from YAML bytes
func ParseGraph(data []byte) (*Graph, error) {
	var file GraphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse event graph: %w", err)
	}
	return NewGraph(file.Events)
}

// Get returns the event for id. Events are shared and must not be modified.
func (g *Graph) Get(id string) (*Event, error) {
	e, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	return e, nil
}

// Has reports whether id is in the graph
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Len returns the number of events
func (g *Graph) Len() int {
	return len(g.byID)
}

// IDs returns all event ids sorted
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.byID))
	for id := range g.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DanglingTarget is a reference from an event to an id that does not exist
type DanglingTarget struct {
	EventID string
	Source  string // choice id, "continue" or "back"
	Target  string
}

// DanglingTargets lists every choice and button target that does not
// resolve in the graph.
func (g *Graph) DanglingTargets() []DanglingTarget {
	var out []DanglingTarget
	for _, id := range g.IDs() {
		e := g.byID[id]
		for _, c := range e.Choices {
			if c.Target != "" && !g.Has(c.Target) {
				out = append(out, DanglingTarget{EventID: id, Source: c.ID, Target: c.Target})
			}
		}
		if e.Continue != nil && e.Continue.Target != "" && !g.Has(e.Continue.Target) {
			out = append(out, DanglingTarget{EventID: id, Source: "continue", Target: e.Continue.Target})
		}
		if e.Back != nil && e.Back.Target != "" && !g.Has(e.Back.Target) {
			out = append(out, DanglingTarget{EventID: id, Source: "back", Target: e.Back.Target})
		}
	}
	return out
}

// ItemReferences returns every item id granted by an add_item choice, keyed
// by the event that grants it.
func (g *Graph) ItemReferences() map[string][]string {
	refs := make(map[string][]string)
	for _, id := range g.IDs() {
		for _, c := range g.byID[id].Choices {
			if c.Action == ActionAddItem && c.ItemID != "" {
				refs[id] = append(refs[id], c.ItemID)
			}
		}
	}
	return refs
}

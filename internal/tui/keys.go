package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/casescope/internal/scene"
)

// Scopes a binding can apply to. Scene scopes use scene.SceneID names.
const (
	scopeAny    = "*"
	scopeSearch = "search"
)

// Actions.
const (
	actionQuit   = "quit"
	actionUp     = "up"
	actionDown   = "down"
	actionSelect = "select"
	actionBack   = "back"
	actionSearch = "search"
	actionCancel = "cancel"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func DefaultKeyBindings() []KeyBinding {
	overview, detail, trend := scene.Overview.String(), scene.RegionDetail.String(), scene.TrendDetail.String()
	return []KeyBinding{
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{overview, detail, trend}},
		{Keys: []string{"ctrl+c"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeAny}},
		{Keys: []string{"k", "up"}, Action: actionUp, Description: "up", Scopes: []string{overview, detail}},
		{Keys: []string{"j", "down"}, Action: actionDown, Description: "down", Scopes: []string{overview, detail}},
		{Keys: []string{"enter"}, Action: actionSelect, Description: "drill in", Scopes: []string{overview, detail}},
		{Keys: []string{"esc", "backspace", "b"}, Action: actionBack, Description: "back", Scopes: []string{detail, trend}},
		{Keys: []string{"/"}, Action: actionSearch, Description: "find region", Scopes: []string{overview}},
		{Keys: []string{"enter"}, Action: actionSelect, Description: "go", Scopes: []string{scopeSearch}},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel", Scopes: []string{scopeSearch}},
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

// Action returns the first action bound to msg in scope.
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) (string, bool) {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action, true
			}
		}
	}
	return "", false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == scopeAny || s == scope {
			return true
		}
	}
	return false
}

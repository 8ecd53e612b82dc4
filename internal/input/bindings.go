package input

// Action is a named compositor action a key binding can trigger, per
// spec.md C7's binding-resolution list.
type Action int

const (
	ActionNone Action = iota
	ActionScrollWorkspaceLeft
	ActionScrollWorkspaceRight
	ActionMoveWindowLeft
	ActionMoveWindowRight
	ActionCloseWindow
	ActionToggleFullscreen
	ActionCycleLayout
	ActionQuit
)

// BindingSet resolves key combinations to actions.
type BindingSet struct {
	byBinding map[Binding]Action
}

// NewBindingSet creates an empty binding set.
func NewBindingSet() *BindingSet {
	return &BindingSet{byBinding: make(map[Binding]Action)}
}

// Bind parses combo (e.g. "Super+Shift+Left") and associates it with
// action, returning false if combo doesn't parse.
func (s *BindingSet) Bind(combo string, action Action) bool {
	b, ok := ParseBinding(combo)
	if !ok {
		return false
	}
	s.byBinding[b] = action
	return true
}

// Resolve looks up the action bound to mods+key, if any.
func (s *BindingSet) Resolve(mods Modifier, key Key) (Action, bool) {
	a, ok := s.byBinding[Binding{Mods: mods, Key: key}]
	return a, ok
}

// DefaultBindings returns Axiom's built-in binding set, per spec.md C7.
func DefaultBindings() *BindingSet {
	s := NewBindingSet()
	s.Bind("Super+Left", ActionScrollWorkspaceLeft)
	s.Bind("Super+Right", ActionScrollWorkspaceRight)
	s.Bind("Super+Shift+Left", ActionMoveWindowLeft)
	s.Bind("Super+Shift+Right", ActionMoveWindowRight)
	s.Bind("Super+Q", ActionCloseWindow)
	s.Bind("Super+F", ActionToggleFullscreen)
	s.Bind("Super+Space", ActionCycleLayout)
	s.Bind("Super+Shift+Q", ActionQuit)
	return s
}

package config

// WorkspaceConfig is the `[workspace]` section: scrollable-strip tunables
// consumed by internal/workspace.Config.
type WorkspaceConfig struct {
	ScrollSpeed         float64 `toml:"scroll_speed"`
	InfiniteScroll      bool    `toml:"infinite_scroll"`
	AutoScroll          bool    `toml:"auto_scroll"`
	WorkspaceWidth      uint32  `toml:"workspace_width"`
	Gaps                uint32  `toml:"gaps"`
	SmoothScrolling     bool    `toml:"smooth_scrolling"`
	MomentumFriction    float64 `toml:"momentum_friction"`
	MomentumMinVelocity float64 `toml:"momentum_min_velocity"`
	SnapThresholdPx     float64 `toml:"snap_threshold_px"`
}

func defaultWorkspaceConfig() WorkspaceConfig {
	return WorkspaceConfig{
		ScrollSpeed:         1.0,
		InfiniteScroll:      true,
		AutoScroll:          true,
		WorkspaceWidth:      1920,
		Gaps:                10,
		SmoothScrolling:     true,
		MomentumFriction:    0.95,
		MomentumMinVelocity: 1.0,
		SnapThresholdPx:     48.0,
	}
}

// AnimationConfig configures scroll/window transition timing.
type AnimationConfig struct {
	Enabled             bool   `toml:"enabled"`
	DurationMillis      uint32 `toml:"duration"`
	Curve               string `toml:"curve"`
	WorkspaceTransition uint32 `toml:"workspace_transition"`
	WindowAnimation     uint32 `toml:"window_animation"`
}

func defaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		Enabled:             true,
		DurationMillis:      300,
		Curve:               "ease-out",
		WorkspaceTransition: 250,
		WindowAnimation:     200,
	}
}

// BlurConfig configures the background-blur effect's timing contract
// (spec.md's "effect parameters beyond their timing contract" are out of
// scope; the knobs themselves are still config surface).
type BlurConfig struct {
	Enabled           bool    `toml:"enabled"`
	RadiusPx          uint32  `toml:"radius"`
	Intensity         float64 `toml:"intensity"`
	WindowBackgrounds bool    `toml:"window_backgrounds"`
}

func defaultBlurConfig() BlurConfig {
	return BlurConfig{Enabled: true, RadiusPx: 10, Intensity: 0.8, WindowBackgrounds: true}
}

// RoundedCornersConfig configures corner rounding.
type RoundedCornersConfig struct {
	Enabled      bool   `toml:"enabled"`
	RadiusPx     uint32 `toml:"radius"`
	Antialiasing uint32 `toml:"antialiasing"`
}

func defaultRoundedCornersConfig() RoundedCornersConfig {
	return RoundedCornersConfig{Enabled: true, RadiusPx: 8, Antialiasing: 2}
}

// ShadowConfig configures drop shadows.
type ShadowConfig struct {
	Enabled    bool    `toml:"enabled"`
	SizePx     uint32  `toml:"size"`
	BlurRadius uint32  `toml:"blur_radius"`
	Opacity    float64 `toml:"opacity"`
	Color      string  `toml:"color"`
}

func defaultShadowConfig() ShadowConfig {
	return ShadowConfig{Enabled: true, SizePx: 20, BlurRadius: 15, Opacity: 0.6, Color: "#000000"}
}

// EffectsConfig is the `[effects]` section.
type EffectsConfig struct {
	Enabled        bool                 `toml:"enabled"`
	Animations     AnimationConfig      `toml:"animations"`
	Blur           BlurConfig           `toml:"blur"`
	RoundedCorners RoundedCornersConfig `toml:"rounded_corners"`
	Shadows        ShadowConfig         `toml:"shadows"`
}

func defaultEffectsConfig() EffectsConfig {
	return EffectsConfig{
		Enabled:        true,
		Animations:     defaultAnimationConfig(),
		Blur:           defaultBlurConfig(),
		RoundedCorners: defaultRoundedCornersConfig(),
		Shadows:        defaultShadowConfig(),
	}
}

// WindowConfig is the `[window]` section.
type WindowConfig struct {
	Placement                  string `toml:"placement"`
	FocusFollowsMouse          bool   `toml:"focus_follows_mouse"`
	BorderWidthPx              uint32 `toml:"border_width"`
	ActiveBorderColor          string `toml:"active_border_color"`
	InactiveBorderColor        string `toml:"inactive_border_color"`
	GapPx                      uint32 `toml:"gap"`
	DefaultLayout              string `toml:"default_layout"`
	ForceClientSideDecorations bool   `toml:"force_client_side_decorations"`
}

func defaultWindowConfig() WindowConfig {
	return WindowConfig{
		Placement:           "smart",
		FocusFollowsMouse:   false,
		BorderWidthPx:       2,
		ActiveBorderColor:   "#7C3AED",
		InactiveBorderColor: "#374151",
		GapPx:               10,
		DefaultLayout:       "horizontal",
	}
}

// InputConfig is the `[input]` section.
type InputConfig struct {
	KeyboardRepeatDelayMillis uint32  `toml:"keyboard_repeat_delay"`
	KeyboardRepeatRate        uint32  `toml:"keyboard_repeat_rate"`
	MouseAccel                float64 `toml:"mouse_accel"`
	TouchpadTap               bool    `toml:"touchpad_tap"`
	NaturalScrolling          bool    `toml:"natural_scrolling"`
	PanThresholdPx            float64 `toml:"pan_threshold"`
	ScrollThresholdPx         float64 `toml:"scroll_threshold"`
	SwipeThresholdPx          float64 `toml:"swipe_threshold"`
	DragThresholdPx           float64 `toml:"drag_threshold"`
}

func defaultInputConfig() InputConfig {
	return InputConfig{
		KeyboardRepeatDelayMillis: 600,
		KeyboardRepeatRate:        25,
		MouseAccel:                0.0,
		TouchpadTap:               true,
		NaturalScrolling:          true,
		PanThresholdPx:            10.0,
		ScrollThresholdPx:         5.0,
		SwipeThresholdPx:          20.0,
		DragThresholdPx:           12.0,
	}
}

// BindingsConfig is the `[bindings]` section: key-combo strings parsed
// by internal/input.ParseBinding.
type BindingsConfig struct {
	ScrollLeft         string `toml:"scroll_left"`
	ScrollRight        string `toml:"scroll_right"`
	MoveWindowLeft     string `toml:"move_window_left"`
	MoveWindowRight    string `toml:"move_window_right"`
	CloseWindow        string `toml:"close_window"`
	ToggleFullscreen   string `toml:"toggle_fullscreen"`
	LaunchTerminal     string `toml:"launch_terminal"`
	LaunchLauncher     string `toml:"launch_launcher"`
	ToggleEffects      string `toml:"toggle_effects"`
	Quit               string `toml:"quit"`
	MouseLeft          string `toml:"mouse_left"`
	MouseRight         string `toml:"mouse_right"`
	MouseMiddle        string `toml:"mouse_middle"`
	DragMoveModifier   string `toml:"drag_move_modifier"`
	DragResizeModifier string `toml:"drag_resize_modifier"`
}

func defaultBindingsConfig() BindingsConfig {
	return BindingsConfig{
		ScrollLeft:       "Super+Left",
		ScrollRight:      "Super+Right",
		MoveWindowLeft:   "Super+Shift+Left",
		MoveWindowRight:  "Super+Shift+Right",
		CloseWindow:      "Super+q",
		ToggleFullscreen: "Super+f",
		LaunchTerminal:   "Super+Enter",
		LaunchLauncher:   "Super+Space",
		ToggleEffects:    "Super+e",
		Quit:             "Super+Shift+q",
		DragMoveModifier: "Super",
	}
}

// XWaylandConfig is the `[xwayland]` section. XWayland itself is an
// external client (spec.md §1 Non-goals), so this is config surface
// only: whether to advertise it and on which display number.
type XWaylandConfig struct {
	Enabled bool    `toml:"enabled"`
	Display *uint32 `toml:"display,omitempty"`
}

func defaultXWaylandConfig() XWaylandConfig {
	return XWaylandConfig{Enabled: true}
}

// GeneralConfig is the `[general]` section.
type GeneralConfig struct {
	Debug  bool   `toml:"debug"`
	MaxFPS uint32 `toml:"max_fps"`
	VSync  bool   `toml:"vsync"`
}

func defaultGeneralConfig() GeneralConfig {
	return GeneralConfig{Debug: false, MaxFPS: 0, VSync: true}
}

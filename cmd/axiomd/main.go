package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"axiom.land/axiom/internal/axlog"
	"axiom.land/axiom/internal/config"
	"axiom.land/axiom/internal/control"
	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/pacer"
	"axiom.land/axiom/internal/present"
	"axiom.land/axiom/internal/protocol"
	"axiom.land/axiom/internal/recovery"
	"axiom.land/axiom/internal/texture"
	"axiom.land/axiom/internal/winstate"
	"axiom.land/axiom/internal/workspace"
)

var (
	version = "0.1.0"

	cfgFile             string
	outputsFlag         string
	backendFlag         string
	presentModeFlag     string
	splitFrameCallbacks bool
	debugOutputs        bool
	displayNameFlag     string
	textureBudgetMBFlag int
)

var log = axlog.L("main")

var rootCmd = &cobra.Command{
	Use:   "axiomd",
	Short: "Axiom Wayland compositor",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the compositor",
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("axiomd v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "~/.config/axiom/config.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&outputsFlag, "outputs", "", `initial output topology, e.g. "1920x1080@1+0,0;1920x1080@1+1920,0"`)
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "auto", "GPU backend: auto|vulkan|gl")
	rootCmd.PersistentFlags().StringVar(&presentModeFlag, "present-mode", "auto", "present mode: auto|fifo|mailbox|immediate")
	rootCmd.PersistentFlags().BoolVar(&splitFrameCallbacks, "split-frame-callbacks", false, "fire wl_surface.frame callbacks per-output instead of once on the largest-area output")
	rootCmd.PersistentFlags().BoolVar(&debugOutputs, "debug-outputs", false, "draw output scissor boundaries")
	rootCmd.PersistentFlags().StringVar(&displayNameFlag, "display", "wayland-1", "Wayland display socket name under $XDG_RUNTIME_DIR")
	rootCmd.PersistentFlags().IntVar(&textureBudgetMBFlag, "texture-budget-mb", 256, "texture cache byte budget, in MiB")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyEnvOverrides mirrors spec.md §6's environment-variable overrides,
// which take precedence over CLI flags for scripted/session-manager
// launches that can't easily pass argv.
func applyEnvOverrides() {
	if v := os.Getenv("AXIOM_PRESENT_MODE"); v != "" {
		presentModeFlag = v
	}
	if v := os.Getenv("AXIOM_SPLIT_FRAME_CALLBACKS"); v != "" {
		splitFrameCallbacks = v == "1" || v == "true"
	}
	if v := os.Getenv("AXIOM_DEBUG_OUTPUTS"); v != "" {
		debugOutputs = v == "1" || v == "true"
	}
	if v := os.Getenv("WAYLAND_DISPLAY"); v != "" {
		displayNameFlag = v
	}
}

func run() error {
	applyEnvOverrides()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := "info"
	if cfg.General.Debug {
		logLevel = "debug"
	}
	axlog.Init("text", logLevel, os.Stderr)
	log = axlog.L("main")

	mode, ok := present.ParsePresentMode(presentModeFlag)
	if !ok {
		return fmt.Errorf("invalid --present-mode %q", presentModeFlag)
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return fmt.Errorf("XDG_RUNTIME_DIR is not set")
	}

	recoveryMgr := recovery.NewManager(recovery.DefaultConfig())
	if err := recoveryMgr.Init(); err != nil {
		return fmt.Errorf("init recovery manager: %w", err)
	}
	stopCrashWatch := recovery.WatchCrashSignals(recoveryMgr)
	defer stopCrashWatch()
	defer recovery.RecoverPanic(recoveryMgr)

	state := protocol.NewState()
	seat := protocol.NewSeat("seat0")
	strip := workspace.New(workspace.DefaultConfig())
	strip.SetScrollSpeed(cfg.Workspace.ScrollSpeed)
	// decorations tracks server-side-decoration state per mapped toplevel
	// (C5). Button hit-testing against it needs a real pointer/libinput
	// backend to exercise beyond unit tests, so that half of C5 is left
	// for that follow-on wiring pass; windowTracker still registers and
	// removes windows here as they map and unmap.
	decorations := winstate.NewManager(winstate.DefaultTheme())
	textures := texture.NewCache(textureBudgetMBFlag * 1024 * 1024)
	frameDamage := damage.NewFrameDamage()
	framePacer := pacer.NewPacer(splitFrameCallbacks)
	windows := newWindowTracker(strip, decorations, textures, frameDamage, framePacer)
	gpu := newLoggingGPU(log)
	presenter := present.NewPresenter(gpu, mode, debugOutputs)

	outputs := newOutputRegistry()
	if err := outputs.seedFromFlag(outputsFlag); err != nil {
		return err
	}
	if len(outputs.Snapshot()) == 0 {
		if err := outputs.AddOutput(control.OutputSpec{Width: 1920, Height: 1080, Scale: 1}); err != nil {
			return err
		}
	}

	controlPath := control.SocketPath(runtimeDir, os.Getpid())
	controlSrv, err := control.NewServer(controlPath, outputs)
	if err != nil {
		return fmt.Errorf("start control server: %w", err)
	}
	defer controlSrv.Close()

	waylandSrv, err := newWaylandServer(runtimeDir, displayNameFlag, state, seat, log)
	if err != nil {
		return fmt.Errorf("start wayland listener: %w", err)
	}
	waylandSrv.onSession = windows.bind
	defer waylandSrv.Close()

	globalsFn := func() []protocol.RegistryGlobal {
		globals := append([]protocol.RegistryGlobal(nil), coreGlobals...)
		for i, o := range outputs.Snapshot() {
			globals = append(globals, protocol.RegistryGlobal{
				Name:      uint32(100 + i),
				Interface: "wl_output",
				Version:   3,
			})
			_ = o
		}
		return globals
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- waylandSrv.Serve(globalsFn) }()

	ctrlErrCh := make(chan error, 1)
	go func() { ctrlErrCh <- controlSrv.Serve(context.Background()) }()

	log.Info("axiomd started", "display", displayNameFlag, "control_socket", controlPath, "present_mode", presentModeFlag)

	ticker := time.NewTicker(16 * time.Millisecond) // ~60Hz fallback cadence; real vsync drives present.Tick in production
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			log.Info("shutdown signal received, stopping")
			return shutdown(waylandSrv, controlSrv)
		case err := <-serveErrCh:
			if err != nil {
				log.Warn("wayland listener exited", "error", err.Error())
			}
			return shutdown(waylandSrv, controlSrv)
		case err := <-ctrlErrCh:
			if err != nil {
				log.Warn("control server exited", "error", err.Error())
			}
		case now := <-ticker.C:
			strip.Tick(now)

			if ops := presenter.ReconcileOutputs(outputs.Snapshot()); len(ops) > 0 {
				log.Debug("output topology changed", "ops", len(ops))
			}

			layouts := strip.CalculateLayouts()
			visible := make([]present.Visible, 0, len(layouts))
			z := 0
			for windowID, rect := range layouts {
				visible = append(visible, present.Visible{WindowID: windowID, ScreenRect: rect, ZIndex: z})
				z++
			}
			if _, err := presenter.Tick(frameDamage, visible, false); err != nil {
				log.Warn("present tick failed", "error", err.Error())
			}

			fired, _ := framePacer.Tick(now, frameDamage, visibility(layouts, outputs.Snapshot()), strip.WindowExists)
			windows.deliver(fired)

			frameDamage.AdvanceFrame()
			textures.AdvanceFrame()

			if recoveryMgr.ShouldSnapshot(now) {
				snap := buildSnapshot(fmt.Sprintf("%d", now.UnixNano()), now.Unix(), strip, decorations, layouts)
				if _, err := recoveryMgr.Snapshot(snap, now); err != nil {
					log.Warn("snapshot failed", "error", err.Error())
				}
			}
		}
	}
}

// shutdown stops accepting new clients and closes the listeners; the
// remaining resources (recovery manager's snapshot files, etc.) have no
// live handles to release and are cleaned up by the deferred calls in
// run().
func shutdown(waylandSrv *waylandServer, controlSrv *control.Server) error {
	_ = waylandSrv.Close()
	_ = controlSrv.Close()
	return nil
}

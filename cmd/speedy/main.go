// Command speedy is a terminal RSVP reader: it flashes one word at a time at
// a fixed fixation point, drawn as pixels on terminals that speak the kitty
// graphics protocol and as cells everywhere else.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/henrythdu/Speedy/app"
	"github.com/henrythdu/Speedy/chrome"
	"github.com/henrythdu/Speedy/command"
	"github.com/henrythdu/Speedy/config"
	"github.com/henrythdu/Speedy/font"
	"github.com/henrythdu/Speedy/glyphcache"
	"github.com/henrythdu/Speedy/input"
	"github.com/henrythdu/Speedy/reading"
	"github.com/henrythdu/Speedy/render"
	"github.com/henrythdu/Speedy/source"
	"github.com/henrythdu/Speedy/terminal"
	"github.com/henrythdu/Speedy/viewport"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DB4B4B"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

type options struct {
	graphics   bool
	fallback   bool
	fontPath   string
	fontSize   float64
	wpm        int
	configPath string
	keymapPath string
	debug      bool
}

func main() {
	// Panic Recovery: leave the user a usable shell even if the reader crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n%s %v\r\n", errorStyle.Render("SPEEDY CRASHED:"), r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "speedy [file]",
		Short:         "Read text one word at a time in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := root.PersistentFlags()
	f.BoolVar(&opts.graphics, "graphics", false, "force the pixel renderer and fail if the terminal cannot do it")
	f.BoolVar(&opts.fallback, "fallback", false, "force the cell renderer")
	f.StringVar(&opts.fontPath, "font", "", "TrueType/OpenType font file (default: embedded Go Mono)")
	f.Float64Var(&opts.fontSize, "font-size", 0, "font size in pixels (0 = derive from cell height)")
	f.IntVar(&opts.wpm, "wpm", reading.DefaultWPM, fmt.Sprintf("reading speed, %d-%d", reading.MinWPM, reading.MaxWPM))
	f.StringVar(&opts.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	f.StringVar(&opts.keymapPath, "keymap", "", "TOML key binding overrides")
	f.BoolVar(&opts.debug, "debug", false, "write a debug log to logs/speedy.log")

	root.AddCommand(newConfigCommand(opts))
	return root
}

// newConfigCommand prints the effective configuration as TOML
func newConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}
}

// loadConfig reads the config file and applies flags given on the command line
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	path, required := opts.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("wpm") {
		cfg.Timing.WPM = reading.ClampWPM(opts.wpm)
	}
	if flags.Changed("font") {
		cfg.Font.Path = opts.fontPath
	}
	if flags.Changed("font-size") {
		cfg.Font.Size = opts.fontSize
	}
	return cfg, cfg.Validate()
}

func loadKeymap(path string) (*input.KeyTable, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	override, err := input.LoadKeyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("keymap %s: %w", path, err)
	}
	return input.MergeKeyTable(input.DefaultKeyTable(), override), nil
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}
	log := slog.Default()

	if fd := os.Stdin.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}

	override, err := viewport.ParseOverride(opts.graphics, opts.fallback)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	keys, err := loadKeymap(opts.keymapPath)
	if err != nil {
		return err
	}
	style, err := render.NewStyle(cfg)
	if err != nil {
		return err
	}

	face, err := font.Load(cfg.Font.Path)
	if err != nil {
		return err
	}
	defer face.Close()
	words := glyphcache.New(font.NewRasterizer(face), cfg.Cache.Capacity)

	term := terminal.New()
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer term.Fini()

	res, err := viewport.NewDetector(override).Resolve(term)
	if err != nil {
		return err
	}
	log.Info("capability resolved",
		"mode", res.Capability, "reason", res.Reason,
		"px", res.Dimensions.PixelW, "py", res.Dimensions.PixelH,
		"cols", res.Dimensions.Cols, "rows", res.Dimensions.Rows,
		"font", face.Name())

	var renderer render.Renderer
	if res.Capability == viewport.Graphics {
		renderer = render.NewGraphicsRenderer(term, words, style)
	} else {
		renderer = render.NewCellRenderer(style)
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warn("failed to remove image", "error", err)
		}
		st := words.Stats()
		log.Info("word cache", "hits", st.Hits, "misses", st.Misses, "evictions", st.Evictions)
	}()

	vp := viewport.New(term.Winsize)
	vp.Set(res.Dimensions)

	ctrl := app.NewController(app.Options{
		Loader:  source.New(),
		Keys:    keys,
		Timing:  cfg.Timing.ReadingTiming(),
		WPM:     cfg.Timing.WPM,
		Ghost:   cfg.Ghost,
		Backend: res.Capability.String(),
		Logger:  log,
	})
	if len(args) == 1 {
		ctrl.Execute(command.Command{Kind: command.KindLoadFile, Path: args[0]})
	}

	w, h := term.Size()
	layout := chrome.Compute(w, h, cfg.Layout.ZoneFraction)
	bg := config.RGB(style.Palette.Background)
	term.Clear(bg)

	orchestrator := render.NewOrchestrator(term, w, h, bg)
	orchestrator.Register(render.ZoneLayer{R: renderer}, render.PriorityZone)
	orchestrator.Register(&chrome.Deck{View: ctrl.View(), Layout: &layout, Palette: style.Palette}, render.PriorityChrome)
	orchestrator.Register(&chrome.Help{View: ctrl.View(), Layout: &layout, Palette: style.Palette}, render.PriorityOverlay)

	loop := app.NewLoop(app.LoopConfig{
		Screen:       term,
		Controller:   ctrl,
		Renderer:     renderer,
		Orchestrator: orchestrator,
		Viewport:     vp,
		Layout:       &layout,
		ZoneFraction: cfg.Layout.ZoneFraction,
		Logger:       log,
	})
	err = loop.Run(res.Deferred)
	log.Info("session ended", "frames", loop.Frames(), "error", err)
	return err
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("speedy:"), err)
	switch {
	case errors.Is(err, viewport.ErrGraphicsUnavailable):
		fmt.Fprintln(os.Stderr, hintStyle.Render("run without --graphics to use the cell renderer"))
	case errors.Is(err, font.ErrNoFont):
		fmt.Fprintln(os.Stderr, hintStyle.Render("check --font or [font] path in the config file"))
	}
}

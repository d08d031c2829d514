// Package main provides the CLI entry point for framepick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/adapters/filesink"
	"github.com/user/framepick/pkg/adapters/ggrenderer"
	"github.com/user/framepick/pkg/adapters/logger"
	"github.com/user/framepick/pkg/adapters/nullsink"
	"github.com/user/framepick/pkg/adapters/osfilesystem"
	"github.com/user/framepick/pkg/adapters/smartmedia"
	"github.com/user/framepick/pkg/config"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/scrub"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Pick    PickCmd    `cmd:"" help:"Extract a still frame from a video at a timestamp."`
	Probe   ProbeCmd   `cmd:"" help:"Show codec, duration and dimensions of a video."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// PickCmd defines the pick subcommand.
type PickCmd struct {
	// Required arguments
	Input  string `arg:"" help:"Input video file path."`
	Output string `short:"o" required:"" help:"Output JPEG file path."`

	// Capture options
	Timestamp     float64 `short:"t" default:"0" help:"Timestamp in seconds to capture (clamped to the video duration)."`
	Quality       *int    `short:"q" help:"JPEG quality (1-100, default: 90)."`
	SeekTimeoutMs *int    `help:"Milliseconds to wait for the decoder to settle per seek (default: 500)."`
	LoadTimeoutMs *int    `help:"Milliseconds to wait for video metadata (default: 10000)."`

	// Decoder options
	FFmpegPath  string `help:"Path to the ffmpeg binary (falls back to PATH)."`
	FFprobePath string `help:"Path to the ffprobe binary (falls back to PATH)."`

	// Config file
	Config string `short:"c" help:"YAML configuration file."`

	// Debug options
	Debug    bool   `short:"d" help:"Enable debug output."`
	DebugDir string `default:"./debug" help:"Directory for debug output."`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Input string `arg:"" help:"Input video file path."`

	LoadTimeoutMs *int   `help:"Milliseconds to wait for video metadata (default: 10000)."`
	FFmpegPath    string `help:"Path to the ffmpeg binary (falls back to PATH)."`
	FFprobePath   string `help:"Path to the ffprobe binary (falls back to PATH)."`
	LogLevel      string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet         bool   `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("framepick"),
		kong.Description("Pick a representative still frame from a video."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the pick command.
func (cmd *PickCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	data, err := fs.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	media := smartmedia.New(smartmedia.Options{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
	})

	var saveErr error
	saved := false
	opts := cfg.ToSessionOptions()
	opts.InitialTimestamp = &cmd.Timestamp
	opts.OnFrameSelect = func(result scrub.FrameResult) {
		jpegData, err := result.JPEGBytes()
		if err != nil {
			saveErr = err
			return
		}
		if err := fs.WriteFile(cmd.Output, jpegData); err != nil {
			saveErr = err
			return
		}
		saved = true
		log.Info("Captured frame at %s", scrub.FormatTimestamp(result.TimestampSeconds))
	}

	session := scrub.NewSession(media, ggrenderer.New(), sink, log, opts)
	defer session.Teardown()

	log.Info("Loading %s...", cmd.Input)
	if err := session.Initialize(ctx, data); err != nil {
		return err
	}
	if saveErr != nil {
		return fmt.Errorf("save frame: %w", saveErr)
	}
	if !saved {
		return fmt.Errorf("no frame was captured; try a longer seek timeout")
	}

	state := session.State()
	log.Info("Output saved to %s (video duration %s)", cmd.Output, scrub.FormatTimestamp(state.Duration))
	return nil
}

// buildConfig merges the config file, defaults and CLI overrides.
func (cmd *PickCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Quality != nil {
		cfg.Quality = *cmd.Quality
	}
	if cmd.SeekTimeoutMs != nil {
		cfg.SeekTimeoutMs = *cmd.SeekTimeoutMs
	}
	if cmd.LoadTimeoutMs != nil {
		cfg.LoadTimeoutMs = *cmd.LoadTimeoutMs
	}
	if cmd.FFmpegPath != "" {
		cfg.FFmpegPath = cmd.FFmpegPath
	}
	if cmd.FFprobePath != "" {
		cfg.FFprobePath = cmd.FFprobePath
	}
	if cmd.Debug {
		cfg.Debug = true
		cfg.DebugDir = cmd.DebugDir
	}
	if cmd.LogLevel != "" {
		cfg.LogLevel = cmd.LogLevel
	}
	return cfg, nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cmd.LogLevel))
	}

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	data, err := fs.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	media := smartmedia.New(smartmedia.Options{
		FFmpegPath:  cmd.FFmpegPath,
		FFprobePath: cmd.FFprobePath,
	})

	timeout := scrub.DefaultMetadataTimeout
	if cmd.LoadTimeoutMs != nil {
		timeout = time.Duration(*cmd.LoadTimeoutMs) * time.Millisecond
	}

	loader := scrub.NewLoader(media, timeout, log)
	handle, err := loader.Load(ctx, data)
	if err != nil {
		return err
	}
	defer handle.Close()

	info := handle.Info()
	fmt.Printf("codec:    %s\n", info.Codec)
	fmt.Printf("size:     %dx%d\n", info.Width, info.Height)
	fmt.Printf("duration: %s (%.2fs)\n", scrub.FormatTimestamp(info.DurationSeconds), info.DurationSeconds)
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("framepick version %s", version))
	return nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupted, shutting down...")
		cancel()
	}()
	return ctx, cancel
}

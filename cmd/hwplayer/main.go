package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/hwplayer"
	"github.com/xaionaro-go/hwplayer/libav/player"
	"github.com/xaionaro-go/observability"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [-l loop_count] [-f frame_count] [-o yuv_output_file] <input file>\n", os.Args[0])
	}

	loggerLevel := logger.LevelWarning
	flags.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := flags.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	loopCount := flags.UintP("loop", "l", 0, "how many times to replay the input")
	frameCount := flags.Int64P("frames", "f", hwplayer.FrameCountUnlimited, "stop each pass after this many decoded frames")
	outputPath := flags.StringP("output", "o", "", "dump the raw decoded frames into the given file")
	hwDevice := flags.String("hwdevice", "drm", "hardware device type to decode with")
	configPath := flags.String("config", "", "path to a YAML config file (flags override it)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		os.Exit(1)
	}
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()
	logger.Default = func() logger.Logger {
		return l
	}
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	cfg := hwplayer.DefaultPlayerConfig()
	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			l.Fatal(err)
		}
		parsed, err := hwplayer.ParsePlayerConfig(b)
		if err != nil {
			l.Fatal(err)
		}
		cfg = *parsed
	}
	if flags.Changed("loop") {
		cfg.LoopCount = *loopCount
	}
	if flags.Changed("frames") {
		cfg.FrameCount = *frameCount
	}
	if flags.Changed("output") {
		cfg.OutputPath = *outputPath
	}
	if flags.Changed("hwdevice") {
		cfg.HardwareDeviceTypeName = hwplayer.HardwareDeviceTypeName(*hwDevice)
	}
	l.Debugf("using config: %s", spew.Sdump(cfg))

	display := player.DisplayFunc(func(ctx context.Context, frame *player.Frame) error {
		logger.Tracef(ctx, "displaying a %dx%d frame ('%v')", frame.Width(), frame.Height(), frame.PixelFormat())
		return nil
	})

	p, err := player.New(ctx, cfg, display)
	if err != nil {
		l.Fatal(err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			l.Errorf("unable to close the player: %v", err)
		}
	}()

	if err := p.Play(ctx, flags.Arg(0)); err != nil {
		l.Fatal(err)
	}

	stats, err := p.GetStats(ctx)
	if err != nil {
		l.Fatal(err)
	}
	fmt.Printf("frames:%d passes:%d\n", stats.FramesDispatched, stats.PassesCompleted)
}

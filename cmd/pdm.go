package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"pdm/pkg/app"
	"pdm/pkg/app/config"
	"pdm/pkg/capture"
	"pdm/pkg/pdm"
	"pdm/pkg/pulsetrain"
	"pdm/pkg/render"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

const defaultConfigFile = "/opt/womat/config/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// errors before the log level is known go to stderr
	debug.SetDebug(os.Stderr, debug.Standard)

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "Pulse Distance Modulation decoder",
		Version: app.VERSION,
		Description: "Decode pulse distance modulated signals (e.g. infrared remote controls) into bits," +
			"\n hex digits and hex words. A short inactive time between two active pulses is a zero," +
			"\n a long one is a one, a long active pulse starts (leadin) and ends (leadout) a word.",
		UsageText: "pdm decode [options] FILE" +
			"\n   pdm generate --bits BITS [options]" +
			"\n   pdm watch [--config <file>] [--log standard|debug|trace]" +
			"\n\nEXAMPLE:" +
			"\n\tgenerate a frame and decode it again" +
			"\n\t\tpdm generate --bits 0101 | pdm decode -",
		Commands: []*cli.Command{
			decodeCommand(),
			generateCommand(),
			watchCommand(cfg),
		},
	}

	sort.Sort(cli.CommandsByName(cliApp.Commands))
	for _, c := range cliApp.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
}

// timingFlags are the decoder options shared by decode and generate.
func timingFlags() []cli.Flag {
	d := pdm.DefaultConfig()

	return []cli.Flag{
		&cli.Uint64Flag{Name: "samplerate", Aliases: []string{"r"}, Usage: "sample rate in `HZ` (default: from capture header, generate: 1000000)"},
		&cli.StringFlag{Name: "polarity", Aliases: []string{"p"}, Value: d.Polarity.String(), Usage: "expected polarity (active-low|active-high)"},
		&cli.UintFlag{Name: "zerotime", Value: d.ZeroTime, Usage: "time for zero bit in `US`"},
		&cli.UintFlag{Name: "onetime", Value: d.OneTime, Usage: "time for one bit in `US`"},
		&cli.Float64Flag{Name: "tolerance", Value: d.Tolerance, Usage: "tolerance in `PERCENT`"},
		&cli.StringFlag{Name: "endian", Aliases: []string{"e"}, Value: d.Endian.String(), Usage: "bit order of hex digits and words (little|big)"},
	}
}

// timing converts the timing flags to the decoder configuration.
func timing(ctx *cli.Context) (pdm.Config, error) {
	p, err := pdm.ParsePolarity(ctx.String("polarity"))
	if err != nil {
		return pdm.Config{}, err
	}
	e, err := pdm.ParseEndianness(ctx.String("endian"))
	if err != nil {
		return pdm.Config{}, err
	}

	c := pdm.Config{
		Polarity:  p,
		ZeroTime:  ctx.Uint("zerotime"),
		OneTime:   ctx.Uint("onetime"),
		Tolerance: ctx.Float64("tolerance"),
		Endian:    e,
	}
	return c, c.Validate()
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decode a capture file",
		ArgsUsage: "FILE (- reads stdin)",
		Flags: append(timingFlags(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: capture.FormatTransitions, Usage: "capture `FORMAT` (transitions|raw)"},
			&cli.UintFlag{Name: "channel", Aliases: []string{"c"}, Usage: "`BIT` of a raw capture holding the line"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: render.FormatText, Usage: "output `FORMAT` (text|json)"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Value: "standard", Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		),
		Action: func(ctx *cli.Context) error {
			setLogLevel(ctx.String("log"))

			opts, err := timing(ctx)
			if err != nil {
				return err
			}

			in, err := openInput(ctx.Args().First())
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			cursor, err := capture.Open(ctx.String("format"), in, ctx.Uint("channel"))
			if err != nil {
				return err
			}

			rate := ctx.Uint64("samplerate")
			if h, ok := cursor.(interface{ SampleRate() uint64 }); ok && rate == 0 {
				rate = h.SampleRate()
			}

			out, err := render.New(ctx.String("output"), os.Stdout)
			if err != nil {
				return err
			}

			d, err := pdm.New(opts, out)
			if err != nil {
				return err
			}
			d.SetSampleRate(rate)

			if err = d.Decode(cursor); err != nil {
				return fmt.Errorf("decoding %s: %w", ctx.Args().First(), err)
			}
			return out.Err()
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "write a synthetic frame as transitions capture to stdout",
		Flags: append(timingFlags(),
			&cli.StringFlag{Name: "bits", Aliases: []string{"b"}, Required: true, Usage: "`BITS` of the frame, e.g. 0101"},
		),
		Action: func(ctx *cli.Context) error {
			opts, err := timing(ctx)
			if err != nil {
				return err
			}

			bits, err := parseBits(ctx.String("bits"))
			if err != nil {
				return err
			}

			rate := ctx.Uint64("samplerate")
			if rate == 0 {
				rate = 1_000_000
			}

			samples := pulsetrain.Frame(rate, opts.Polarity, pulsetrain.DefaultTiming(opts), bits)
			return capture.WriteTransitions(os.Stdout, rate, samples)
		},
	}
}

func watchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "decode a gpio line, publish words to mqtt and serve them via http",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.LogLevel, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Action: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}

			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			defer func() {
				debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
				_ = cfg.Debug.File.Close()
			}()

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() {
				debug.InfoLog.Printf("closing app %s", app.Version())
				_ = a.Close()
			}()

			debug.InfoLog.Printf("starting app %s", app.Version())
			if err = a.Run(); err != nil {
				return err
			}

			// capture exit signals to ensure resources are released on exit.
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			// wait for am os.Interrupt signal (CTRL C)
			sig := <-quit
			debug.InfoLog.Printf("Got %s signal. Aborting...", sig)
			return nil
		},
	}
}

// setLogLevel configures the debug output on stderr.
func setLogLevel(level string) {
	switch level {
	case "trace", "full":
		debug.SetDebug(os.Stderr, debug.Full)
	case "debug":
		debug.SetDebug(os.Stderr, debug.Warning|debug.Info|debug.Error|debug.Fatal|debug.Debug)
	default:
		debug.SetDebug(os.Stderr, debug.Standard)
	}
}

// openInput opens name, "-" and "" are stdin.
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// parseBits converts a string of 0 and 1 to bits, _ and spaces are separators.
func parseBits(s string) ([]uint, error) {
	var bits []uint
	for _, r := range strings.ReplaceAll(s, "_", "") {
		switch r {
		case '0':
			bits = append(bits, 0)
		case '1':
			bits = append(bits, 1)
		case ' ':
		default:
			return nil, fmt.Errorf("invalid bit %q in %q", r, s)
		}
	}
	return bits, nil
}

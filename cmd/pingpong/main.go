// Command pingpong runs the stereo ping-pong delay over a WAV file or a
// generated test signal.
//
// Usage:
//
//	pingpong [flags]
//
// Examples:
//
//	pingpong -in voice.wav -out voice-delayed.wav -delay 0.375 -feedback 0.6
//	pingpong -play -mode lowpass -cutoff 2500 -automate
//	pingpong -analyze -delay 0.25 -feedback 0.7 -mode both
//	pingpong -load-state preset.bin -in drums.wav -out drums-fx.wav
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/dither"
	"github.com/cwbudde/algo-pingpong/dsp/effects/pingpong"
	dspsignal "github.com/cwbudde/algo-pingpong/dsp/signal"
	"github.com/cwbudde/algo-pingpong/plugin/param"
	"github.com/cwbudde/algo-pingpong/plugin/state"
)

const maxRenderTail = 30.0

type options struct {
	in, out    string
	play       bool
	analyze    bool
	automate   bool
	sampleRate int
	blockSize  int
	seconds    float64
	loadState  string
	saveState  string
	logLevel   string
	dither     string
}

func main() {
	var opts options

	store := param.NewStore()
	snap := store.Snapshot()

	flag.StringVar(&opts.in, "in", "", "input WAV file (default: generated burst train)")
	flag.StringVar(&opts.out, "out", "", "write the processed signal to this WAV file")
	flag.BoolVar(&opts.play, "play", false, "play the processed signal")
	flag.BoolVar(&opts.analyze, "analyze", false, "print echo taps and filter response of the current settings")
	flag.BoolVar(&opts.automate, "automate", false, "sweep the lowpass cutoff while playing")
	flag.IntVar(&opts.sampleRate, "sample-rate", 48000, "sample rate of the generated input")
	flag.IntVar(&opts.blockSize, "block", 512, "processing block size in frames")
	flag.Float64Var(&opts.seconds, "seconds", 6, "length of the generated input in seconds")
	flag.StringVar(&opts.loadState, "load-state", "", "load parameters from a saved state file before applying flags")
	flag.StringVar(&opts.saveState, "save-state", "", "save the final parameters to a state file")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&opts.dither, "dither", "triangular", "dither for WAV output: none, rectangular, triangular")

	delay := flag.Float64("delay", float64(snap.DelayTime), "delay time in seconds [0, 4]")
	mix := flag.Float64("mix", float64(snap.Mix), "wet/dry mix [0, 1]")
	feedback := flag.Float64("feedback", float64(snap.Feedback), "cross feedback [0, 0.9]")
	mode := flag.String("mode", "none", "post-delay stages: none, distortion, lowpass, both")
	threshold := flag.Float64("threshold", float64(snap.Threshold), "distortion clip threshold [0.01, 1]")
	cutoff := flag.Float64("cutoff", float64(snap.Cutoff), "lowpass cutoff in Hz [1000, 20000]")
	inGain := flag.Float64("in-gain", float64(snap.InGain), "input gain [0, 2]")
	outGain := flag.Float64("out-gain", float64(snap.OutGain), "output gain [0, 2]")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pingpong [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the stereo ping-pong delay offline, live or as an analysis.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := newLogger(opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.loadState != "" {
		if err := loadState(opts.loadState, store); err != nil {
			log.Error("load state", slog.String("path", opts.loadState), slog.Any("err", err))
			os.Exit(1)
		}
	}

	// Flags given explicitly override loaded state.
	values := map[string]struct {
		id param.ID
		v  *float64
	}{
		"delay":     {param.DelayTime, delay},
		"mix":       {param.Mix, mix},
		"feedback":  {param.Feedback, feedback},
		"threshold": {param.Distortion, threshold},
		"cutoff":    {param.Lowpass, cutoff},
		"in-gain":   {param.InGain, inGain},
		"out-gain":  {param.OutGain, outGain},
	}

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for name, fv := range values {
		if opts.loadState == "" || explicit[name] {
			if err := store.Set(fv.id, float32(*fv.v)); err != nil {
				log.Error("apply flag", slog.String("flag", name), slog.Any("err", err))
				os.Exit(2)
			}
		}
	}

	if opts.loadState == "" || explicit["mode"] {
		m, err := parseMode(*mode)
		if err != nil {
			log.Error("parse flags", slog.Any("err", err))
			os.Exit(2)
		}
		store.SetMode(m)
	}

	if err := run(log, store, opts); err != nil {
		log.Error("pingpong failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, store *param.Store, opts options) error {
	if !opts.analyze && !opts.play && opts.out == "" && opts.saveState == "" {
		log.Warn("nothing to do: pass -out, -play, -analyze or -save-state")
		return nil
	}

	src, err := loadInput(opts)
	if err != nil {
		return err
	}

	layout := pingpong.Stereo
	if src.channels == 1 {
		layout = pingpong.MonoToStereo
	}

	proc := pingpong.New(store, pingpong.WithLogger(log))
	if err := proc.Prepare(float64(src.sampleRate), opts.blockSize, layout); err != nil {
		return err
	}
	defer proc.Release()

	if opts.analyze {
		if err := analyze(os.Stdout, store, float64(src.sampleRate), opts.blockSize); err != nil {
			return err
		}
	}

	tail := int(math.Min(proc.TailSeconds(), maxRenderTail) * float64(src.sampleRate))

	if opts.out != "" {
		dt, err := dither.ParseType(opts.dither)
		if err != nil {
			return err
		}

		rendered := render(proc, src, tail, opts.blockSize)
		if err := writeWAV(opts.out, rendered, dt); err != nil {
			return err
		}

		log.Info("wrote output", slog.String("path", opts.out), slog.Int("frames", rendered.frames()))
		proc.Reset()
	}

	if opts.play {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if opts.automate {
			go automate(ctx, store, 8*time.Second)
		}

		if err := play(ctx, log, proc, src, tail, opts.blockSize); err != nil {
			return err
		}
	}

	if opts.saveState != "" {
		if err := saveState(opts.saveState, store); err != nil {
			return err
		}

		log.Info("saved state", slog.String("path", opts.saveState))
	}

	return nil
}

func parseMode(s string) (param.PostEffect, error) {
	switch strings.ToLower(s) {
	case "none":
		return param.PostNone, nil
	case "distortion":
		return param.PostDistortion, nil
	case "lowpass":
		return param.PostLowpass, nil
	case "both":
		return param.PostBoth, nil
	default:
		return param.PostNone, fmt.Errorf("invalid mode: %s", s)
	}
}

func loadInput(opts options) (clip, error) {
	if opts.in != "" {
		return readWAV(opts.in)
	}

	if opts.sampleRate <= 0 {
		return clip{}, fmt.Errorf("invalid sample rate: %d", opts.sampleRate)
	}

	return burstTrain(opts.sampleRate, opts.seconds)
}

// burstTrain is a short decaying 440 Hz burst on the left channel once per
// second over the first half of the clip.
func burstTrain(sampleRate int, seconds float64) (clip, error) {
	g := dspsignal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(float64(sampleRate))})

	left, err := g.BurstTrain(seconds, 1, 0.05, 440, 0.5)
	if err != nil {
		return clip{}, err
	}

	return clip{
		sampleRate: sampleRate,
		bitDepth:   16,
		channels:   2,
		left:       left,
		right:      make([]float32, len(left)),
	}, nil
}

func render(proc *pingpong.Processor, src clip, tail, blockSize int) clip {
	out := clip{
		sampleRate: src.sampleRate,
		bitDepth:   src.bitDepth,
		channels:   2,
		left:       make([]float32, src.frames()+tail),
		right:      make([]float32, src.frames()+tail),
	}

	copy(out.left, src.left)
	copy(out.right, src.right)

	s := newStream(proc, out, 0, blockSize)
	for s.pos < out.frames() {
		n := min(blockSize, out.frames()-s.pos)
		s.block.SetLen(n)
		s.fill(n)
		proc.ProcessBlock(s.block)
		copy(out.left[s.pos:], s.block.Channel(0))
		copy(out.right[s.pos:], s.block.Channel(1))
		s.pos += n
	}

	return out
}

func loadState(path string, store *param.Store) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return state.Load(f, store)
}

func saveState(path string, store *param.Store) error {
	data, err := state.Marshal(store)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

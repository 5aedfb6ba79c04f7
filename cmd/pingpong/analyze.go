package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/dsp/effects/pingpong"
	"github.com/cwbudde/algo-pingpong/measure/response"
	"github.com/cwbudde/algo-pingpong/plugin/param"
)

const (
	analysisFFTSize = 8192
	maxListedTaps   = 12
)

var reportFrequencies = []float64{100, 500, 1000, 2000, 5000, 10000, 15000, 20000}

// analyze prints the echo pattern of a left impulse and the magnitude
// response of the post-delay lowpass for the current parameters.
func analyze(w io.Writer, store *param.Store, sampleRate float64, blockSize int) error {
	snap := store.Snapshot()

	proc := pingpong.New(store, pingpong.WithLowpassBypass(true))
	if err := proc.Prepare(sampleRate, blockSize, pingpong.Stereo); err != nil {
		return err
	}
	defer proc.Release()

	tail := min(proc.TailSeconds(), maxRenderTail)
	length := max(int(tail*sampleRate)+blockSize, blockSize)

	opts := []response.Option{
		response.WithSampleRate(sampleRate),
		response.WithBlockSize(blockSize),
		response.WithLength(length),
	}

	left, right, err := response.Impulse(proc, 0, opts...)
	if err != nil {
		return err
	}

	taps := response.Taps(left, right, opts...)

	fmt.Fprintf(w, "settings: delay=%.3fs feedback=%.2f mix=%.2f mode=%s tail=%.2fs\n\n",
		snap.DelayTime, snap.Feedback, snap.Mix, snap.Mode, proc.TailSeconds())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAP\tCHANNEL\tTIME (s)\tGAIN\tLEVEL (dB)")

	for i, tp := range taps {
		if i == maxListedTaps {
			fmt.Fprintf(tw, "...\t%d more\t\t\t\n", len(taps)-maxListedTaps)
			break
		}

		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.1f\n", i, channelName(tp.Channel), tp.Seconds, tp.Gain, tp.DB)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	sp, err := lowpassResponse(snap, sampleRate)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nlowpass (%s):\n", lowpassLabel(snap))

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FREQ (Hz)\tGAIN (dB)")

	for _, f := range reportFrequencies {
		if f >= sampleRate/2 {
			continue
		}

		fmt.Fprintf(tw, "%.0f\t%.2f\n", f, sp.MagnitudeDB(f))
	}

	return tw.Flush()
}

func lowpassResponse(snap param.Snapshot, sampleRate float64) (response.Spectrum, error) {
	lp := effects.NewLowpass(effects.DefaultLowpassQ)

	err := lp.Prepare(core.ApplyProcessorOptions(core.WithSampleRate(sampleRate), core.WithChannels(1)))
	if err != nil {
		return response.Spectrum{}, err
	}

	if snap.Mode.HasLowpass() {
		lp.SetCutoff(float64(snap.Cutoff))
	} else {
		lp.SetCutoff(effects.MaxLowpassCutoff)
	}

	ir := make([]float32, analysisFFTSize)
	ir[0] = 1
	lp.ProcessBlock(buffer.FromChannels(ir))

	return response.Analyze(ir, analysisFFTSize, response.WithSampleRate(sampleRate))
}

func lowpassLabel(snap param.Snapshot) string {
	if snap.Mode.HasLowpass() {
		return fmt.Sprintf("%.0f Hz", snap.Cutoff)
	}

	return "wide open"
}

func channelName(ch int) string {
	if ch == 0 {
		return "left"
	}

	return "right"
}

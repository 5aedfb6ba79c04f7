package pingpong

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/core"
	"github.com/cwbudde/algo-pingpong/internal/testutil"
	"github.com/cwbudde/algo-pingpong/plugin/param"
)

const testRate = 1000.0

func newTestProcessor(t *testing.T, set map[param.ID]float32, mode param.PostEffect, opts ...Option) *Processor {
	t.Helper()

	store := param.NewStore()
	for id, v := range set {
		if err := store.Set(id, v); err != nil {
			t.Fatalf("Set(%q) error = %v", id, err)
		}
	}
	store.SetMode(mode)

	opts = append([]Option{WithLowpassBypass(true)}, opts...)
	p := New(store, opts...)

	if err := p.Prepare(testRate, 256, Stereo); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return p
}

// render feeds l and r through p in blocks of n frames.
func render(p *Processor, l, r []float32, n int) {
	for start := 0; start < len(l); start += n {
		end := min(start+n, len(l))
		p.ProcessBlock(buffer.FromChannels(l[start:end], r[start:end]))
	}
}

func TestPrepareValidation(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name   string
		rate   float64
		block  int
		layout Layout
		want   error
	}{
		{name: "zero rate", rate: 0, block: 64, layout: Stereo, want: ErrInvalidSampleRate},
		{name: "nan rate", rate: math.NaN(), block: 64, layout: Stereo, want: ErrInvalidSampleRate},
		{name: "zero block", rate: 48000, block: 0, layout: Stereo, want: ErrInvalidBlockSize},
		{name: "mono out", rate: 48000, block: 64, layout: Layout{Inputs: 2, Outputs: 1}, want: ErrUnsupportedLayout},
		{name: "surround in", rate: 48000, block: 64, layout: Layout{Inputs: 6, Outputs: 2}, want: ErrUnsupportedLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Prepare(tt.rate, tt.block, tt.layout)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Prepare() error = %v, want %v", err, tt.want)
			}

			if p.Prepared() {
				t.Fatal("Prepared() = true after failed Prepare")
			}
		})
	}
}

func TestSupportsLayout(t *testing.T) {
	tests := []struct {
		layout Layout
		want   bool
	}{
		{Stereo, true},
		{MonoToStereo, true},
		{Layout{Inputs: 1, Outputs: 1}, false},
		{Layout{Inputs: 0, Outputs: 2}, false},
		{Layout{Inputs: 2, Outputs: 4}, false},
	}

	for _, tt := range tests {
		if got := SupportsLayout(tt.layout); got != tt.want {
			t.Fatalf("SupportsLayout(%s) = %v, want %v", tt.layout, got, tt.want)
		}
	}
}

func TestImpulseEchoPosition(t *testing.T) {
	for _, delay := range []float32{0.001, 0.01, 0.0375, 0.1, 0.5, 3.9} {
		p := newTestProcessor(t, map[param.ID]float32{
			param.DelayTime: delay,
			param.Mix:       1,
			param.Feedback:  0,
		}, param.PostNone)

		n := int(delay*testRate) + 50
		l := testutil.Impulse(n, 0)
		r := make([]float32, n)
		render(p, l, r, 64)

		want := int(math.Round(float64(delay) * testRate))
		if got := testutil.PeakIndex(l); got < want-1 || got > want+1 {
			t.Fatalf("delay %v: peak at %d, want %d ± 1", delay, got, want)
		}
	}
}

func TestPingPongAlternates(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime:  0.125,
		param.Mix:        1,
		param.Feedback:   0.8,
		param.Distortion: 1,
	}, param.PostDistortion)

	l := testutil.Impulse(640, 0)
	r := make([]float32, 640)
	render(p, l, r, 128)

	// Write-back feeds left dry into the left ring and wet left into the
	// right ring, so the first repeat leaves on the left.
	echoes := []struct {
		at      int
		ch      []float32
		other   []float32
		want    float32
		channel string
	}{
		{at: 125, ch: l, other: r, want: 1, channel: "left"},
		{at: 250, ch: r, other: l, want: 0.8, channel: "right"},
		{at: 375, ch: l, other: r, want: 0.64, channel: "left"},
		{at: 500, ch: r, other: l, want: 0.512, channel: "right"},
	}

	for _, e := range echoes {
		testutil.RequireNearlyEqual(t, e.channel, e.ch[e.at], e.want, 1e-5)

		if e.other[e.at] != 0 {
			t.Fatalf("echo at %d leaked to the other channel: %v", e.at, e.other[e.at])
		}
	}

	for i := 1; i < 640; i++ {
		if i%125 == 0 {
			continue
		}

		if l[i] != 0 || r[i] != 0 {
			t.Fatalf("unexpected output at %d: (%v, %v)", i, l[i], r[i])
		}
	}
}

func TestDistortionClipsDifference(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime:  0.125,
		param.Mix:        1,
		param.Feedback:   0,
		param.Distortion: 0.5,
	}, param.PostDistortion)

	l := testutil.Impulse(200, 0)
	r := make([]float32, 200)
	render(p, l, r, 200)

	// dry 1, wet 0: 1 + clip(-1) = 0.5
	testutil.RequireNearlyEqual(t, "dry frame", l[0], 0.5, 1e-6)
	// dry 0, wet 1: clip(1) = 0.5
	testutil.RequireNearlyEqual(t, "echo frame", l[125], 0.5, 1e-6)
}

func TestModeWithoutDistortionIgnoresThreshold(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime:  0.125,
		param.Mix:        1,
		param.Feedback:   0,
		param.Distortion: 0.01,
	}, param.PostNone)

	l := testutil.Impulse(200, 0)
	r := make([]float32, 200)
	render(p, l, r, 200)

	testutil.RequireNearlyEqual(t, "echo", l[125], 1, 1e-6)
}

func TestMixBlend(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime: 0.125,
		param.Mix:       0.25,
		param.Feedback:  0,
	}, param.PostNone)

	l := testutil.Impulse(200, 0)
	r := make([]float32, 200)
	render(p, l, r, 50)

	testutil.RequireNearlyEqual(t, "dry", l[0], 0.75, 1e-6)
	testutil.RequireNearlyEqual(t, "wet", l[125], 0.25, 1e-6)
}

func TestZeroDelayIsInert(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime: 0,
		param.Mix:       1,
		param.Feedback:  0.9,
	}, param.PostNone)

	in := testutil.DeterministicNoise(3, 0.5, 256)
	l := append([]float32(nil), in...)
	r := append([]float32(nil), in...)
	render(p, l, r, 64)

	testutil.RequireSliceNearlyEqual(t, l, in, 0)
	testutil.RequireSliceNearlyEqual(t, r, in, 0)
}

func TestMonoInputDuplicated(t *testing.T) {
	store := param.NewStore()
	_ = store.Set(param.Mix, 0)

	p := New(store, WithLowpassBypass(true))
	if err := p.Prepare(testRate, 128, MonoToStereo); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	l := testutil.DeterministicSine(50, testRate, 0.5, 128)
	r := testutil.DC(0.3, 128)
	want := append([]float32(nil), l...)

	p.ProcessBlock(buffer.FromChannels(l, r))

	testutil.RequireSliceNearlyEqual(t, l, want, 0)
	testutil.RequireSliceNearlyEqual(t, r, want, 0)
}

func TestMismatchedBlockUntouched(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{param.InGain: 0}, param.PostNone)

	mono := buffer.New(1, 64)
	copy(mono.Channel(0), testutil.Ones(64))
	p.ProcessBlock(mono)
	testutil.RequireSliceNearlyEqual(t, mono.Channel(0), testutil.Ones(64), 0)

	big := buffer.New(2, 512)
	copy(big.Channel(0), testutil.Ones(512))
	p.ProcessBlock(big)
	testutil.RequireSliceNearlyEqual(t, big.Channel(0), testutil.Ones(512), 0)

	p.ProcessBlock(nil)
}

func TestUnpreparedIsNoop(t *testing.T) {
	p := New(nil)
	b := buffer.FromChannels(testutil.Ones(8), testutil.Ones(8))

	p.ProcessBlock(b)
	testutil.RequireSliceNearlyEqual(t, b.Channel(0), testutil.Ones(8), 0)

	if got := p.Level(0); got != core.MinDecibels {
		t.Fatalf("Level(0) = %v, want floor", got)
	}
}

func TestGainStagesRampBetweenBlocks(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.Mix:     0,
		param.OutGain: 1,
	}, param.PostNone)

	l, r := testutil.Ones(4), testutil.Ones(4)
	p.ProcessBlock(buffer.FromChannels(l, r))
	testutil.RequireSliceNearlyEqual(t, l, testutil.Ones(4), 0)

	_ = p.Store().Set(param.OutGain, 2)

	l, r = testutil.Ones(4), testutil.Ones(4)
	p.ProcessBlock(buffer.FromChannels(l, r))
	testutil.RequireSliceNearlyEqual(t, l, []float32{1, 1.25, 1.5, 1.75}, 1e-6)

	l, r = testutil.Ones(4), testutil.Ones(4)
	p.ProcessBlock(buffer.FromChannels(l, r))
	testutil.RequireSliceNearlyEqual(t, r, testutil.DC(2, 4), 0)
}

func TestLowpassModeFiltersOutput(t *testing.T) {
	store := param.NewStore()
	_ = store.Set(param.Mix, 0)
	_ = store.Set(param.Lowpass, 1000)
	store.SetMode(param.PostLowpass)

	p := New(store)
	if err := p.Prepare(48000, 512, Stereo); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	const n = 4800
	l := testutil.DeterministicSine(15000, 48000, 1, n)
	r := testutil.DeterministicSine(15000, 48000, 1, n)
	render(p, l, r, 512)

	var peak float64
	for _, v := range l[n/2:] {
		peak = math.Max(peak, math.Abs(float64(v)))
	}

	if db := core.LinearToDB(peak); db > -30 {
		t.Fatalf("15 kHz after 1 kHz lowpass = %.1f dB, want < -30 dB", db)
	}
}

func TestLowpassBypassLeavesSignal(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{param.Mix: 0}, param.PostDistortion)

	in := testutil.DeterministicNoise(9, 0.5, 256)
	l := append([]float32(nil), in...)
	r := append([]float32(nil), in...)
	render(p, l, r, 256)

	testutil.RequireSliceNearlyEqual(t, l, in, 0)
}

func TestMetersFollowOutput(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{param.Mix: 0}, param.PostNone)

	l, r := testutil.Ones(128), make([]float32, 128)
	p.ProcessBlock(buffer.FromChannels(l, r))

	testutil.RequireNearlyEqual(t, "left level", p.Level(0), 0, 1e-4)

	if got := p.Level(1); got != core.MinDecibels {
		t.Fatalf("Level(1) = %v, want floor", got)
	}

	if got := p.Peak(0); got != 1 {
		t.Fatalf("Peak(0) = %v, want 1", got)
	}

	p.Reset()

	if got := p.Level(0); got != core.MinDecibels {
		t.Fatalf("Level(0) after Reset = %v, want floor", got)
	}

	p.Release()

	if p.Prepared() {
		t.Fatal("Prepared() = true after Release")
	}

	if got := p.Peak(0); got != 0 {
		t.Fatalf("Peak(0) after Release = %v, want 0", got)
	}
}

func TestResetClearsEchoes(t *testing.T) {
	p := newTestProcessor(t, map[param.ID]float32{
		param.DelayTime: 0.05,
		param.Mix:       1,
		param.Feedback:  0.5,
	}, param.PostNone)

	l := testutil.Impulse(40, 0)
	r := make([]float32, 40)
	render(p, l, r, 40)

	p.Reset()

	l, r = make([]float32, 200), make([]float32, 200)
	render(p, l, r, 100)

	for i := range l {
		if l[i] != 0 || r[i] != 0 {
			t.Fatalf("echo survived Reset at %d", i)
		}
	}
}

func TestTailSeconds(t *testing.T) {
	tests := []struct {
		delay, feedback, want float64
	}{
		{delay: 0, feedback: 0.5, want: 0},
		{delay: 1, feedback: 0, want: 1},
		{delay: 1, feedback: 0.5, want: 17},
		{delay: 4, feedback: 0.9, want: 440},
		{delay: 4, feedback: 1, want: maxTailSeconds},
	}

	for _, tt := range tests {
		if got := TailSeconds(tt.delay, tt.feedback); got != tt.want {
			t.Fatalf("TailSeconds(%v, %v) = %v, want %v", tt.delay, tt.feedback, got, tt.want)
		}
	}

	p := New(nil)
	if got := p.TailSeconds(); got != 34 {
		t.Fatalf("default TailSeconds() = %v, want 34", got)
	}

	if got := p.Latency(); got != 0 {
		t.Fatalf("Latency() = %d, want 0", got)
	}
}

func TestProcessBlockNoAlloc(t *testing.T) {
	store := param.NewStore()
	store.SetMode(param.PostBoth)

	p := New(store)
	if err := p.Prepare(48000, 512, Stereo); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	b := buffer.New(2, 512)
	copy(b.Channel(0), testutil.DeterministicNoise(1, 0.5, 512))
	copy(b.Channel(1), testutil.DeterministicNoise(2, 0.5, 512))

	cutoff := float32(1000)
	allocs := testing.AllocsPerRun(200, func() {
		cutoff += 25
		_ = store.Set(param.Lowpass, cutoff)
		p.ProcessBlock(b)
	})

	if allocs != 0 {
		t.Fatalf("allocs per block = %v, want 0", allocs)
	}
}

func TestConcurrentParameterWrites(t *testing.T) {
	store := param.NewStore()

	p := New(store)
	if err := p.Prepare(48000, 256, Stereo); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}

			_ = store.Set(param.DelayTime, float32(i%400)/100)
			_ = store.Set(param.Feedback, float32(i%90)/100)
			store.SetMode(param.PostEffect(i % 4))
		}
	}()

	go func() {
		defer wg.Done()

		for {
			select {
			case <-done:
				return
			default:
			}

			_ = p.Level(0)
			_ = p.Peak(1)
		}
	}()

	b := buffer.New(2, 256)
	for range 200 {
		copy(b.Channel(0), testutil.DeterministicNoise(5, 0.5, 256))
		copy(b.Channel(1), testutil.DeterministicNoise(6, 0.5, 256))
		p.ProcessBlock(b)
		testutil.RequireFinite(t, b.Channel(0))
		testutil.RequireFinite(t, b.Channel(1))
	}

	close(done)
	wg.Wait()
}

package main

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-pingpong/dsp/buffer"
	"github.com/cwbudde/algo-pingpong/dsp/effects"
	"github.com/cwbudde/algo-pingpong/dsp/effects/pingpong"
	"github.com/cwbudde/algo-pingpong/plugin/param"
)

const bytesPerFrame = 8

// stream feeds a clip through the processor on oto's goroutine. After the
// clip it keeps rendering silence for tail frames so the echoes ring out.
type stream struct {
	proc  *pingpong.Processor
	src   clip
	tail  int
	pos   int
	block *buffer.Block
}

func newStream(proc *pingpong.Processor, src clip, tailFrames, blockSize int) *stream {
	return &stream{
		proc:  proc,
		src:   src,
		tail:  tailFrames,
		block: buffer.New(2, blockSize),
	}
}

func (s *stream) Read(p []byte) (int, error) {
	total := s.src.frames() + s.tail
	if s.pos >= total {
		return 0, io.EOF
	}

	frames := min(len(p)/bytesPerFrame, total-s.pos)
	written := 0

	for written < frames {
		n := min(frames-written, s.block.Cap())
		s.block.SetLen(n)
		s.fill(n)
		s.proc.ProcessBlock(s.block)

		l, r := s.block.Channel(0), s.block.Channel(1)
		for i := range n {
			off := (written + i) * bytesPerFrame
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(l[i]))
			binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(r[i]))
		}

		written += n
		s.pos += n
	}

	return written * bytesPerFrame, nil
}

func (s *stream) fill(n int) {
	l, r := s.block.Channel(0), s.block.Channel(1)

	for i := range n {
		at := s.pos + i
		if at < s.src.frames() {
			l[i], r[i] = s.src.left[at], s.src.right[at]
		} else {
			l[i], r[i] = 0, 0
		}
	}
}

func play(ctx context.Context, log *slog.Logger, proc *pingpong.Processor, src clip, tailFrames, blockSize int) error {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   src.sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(blockSize) * time.Second / time.Duration(src.sampleRate),
	})
	if err != nil {
		return err
	}
	<-ready

	player := otoCtx.NewPlayer(newStream(proc, src, tailFrames, blockSize))
	defer player.Close()

	player.Play()
	log.Info("playing", slog.Int("frames", src.frames()+tailFrames), slog.Int("sample_rate", src.sampleRate))

	meters := time.NewTicker(500 * time.Millisecond)
	defer meters.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			log.Info("playback interrupted")
			return nil
		case <-meters.C:
			log.Debug("levels",
				slog.Float64("left_db", float64(proc.Level(0))),
				slog.Float64("right_db", float64(proc.Level(1))),
			)
		}
	}

	return nil
}

// automate sweeps the lowpass cutoff between its bounds on a logarithmic
// scale while ctx is live.
func automate(ctx context.Context, store *param.Store, period time.Duration) {
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	cutoff, ok := store.Get(param.Lowpass)
	if !ok {
		return
	}

	start := time.Now()
	lo, hi := math.Log(effects.MinLowpassCutoff), math.Log(effects.MaxLowpassCutoff)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			phase := 2 * math.Pi * now.Sub(start).Seconds() / period.Seconds()
			pos := 0.5 - 0.5*math.Cos(phase)
			cutoff.Set(float32(math.Exp(lo+pos*(hi-lo))))
		}
	}
}

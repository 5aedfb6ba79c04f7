package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-pingpong/dsp/dither"
)

// wavFormatPCM is the integer PCM format tag of the fmt chunk.
const wavFormatPCM = 1

var errNotWAV = errors.New("not a valid wav file")

// clip is planar stereo audio at a fixed rate.
type clip struct {
	sampleRate int
	bitDepth   int
	channels   int
	left       []float32
	right      []float32
}

func (c clip) frames() int {
	return len(c.left)
}

func readWAV(path string) (clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return clip{}, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return clip{}, fmt.Errorf("%s: %w", path, errNotWAV)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("decode %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return clip{}, fmt.Errorf("%s: %d channels: %w", path, channels, errNotWAV)
	}

	if d.WavAudioFormat != wavFormatPCM {
		return clip{}, fmt.Errorf("%s: audio format %d: %w", path, d.WavAudioFormat, errNotWAV)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth < 8 || bitDepth > 32 {
		return clip{}, fmt.Errorf("%s: %d-bit samples: %w", path, bitDepth, errNotWAV)
	}

	scale := float32(int64(1) << (bitDepth - 1))

	// 8-bit PCM is unsigned around 128.
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(buf.Data) / channels

	c := clip{
		sampleRate: buf.Format.SampleRate,
		bitDepth:   bitDepth,
		channels:   min(channels, 2),
		left:       make([]float32, frames),
		right:      make([]float32, frames),
	}

	for i := range frames {
		c.left[i] = float32(buf.Data[i*channels]-offset) / scale
		if channels > 1 {
			c.right[i] = float32(buf.Data[i*channels+1]-offset) / scale
		}
	}

	return c, nil
}

func writeWAV(path string, c clip, dt dither.DitherType) error {
	bitDepth := c.bitDepth
	if bitDepth != 16 && bitDepth != 24 {
		bitDepth = 16
	}

	q, err := dither.NewQuantizer(dither.WithBitDepth(bitDepth), dither.WithDitherType(dt))
	if err != nil {
		return err
	}

	data := make([]int, 2*c.frames())
	for i := range c.frames() {
		data[2*i] = q.ProcessInteger(c.left[i])
		data[2*i+1] = q.ProcessInteger(c.right[i])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, c.sampleRate, bitDepth, 2, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: c.sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finish %s: %w", path, err)
	}

	return f.Close()
}

package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=2
}

func ExampleGainToDecibels() {
	fmt.Printf("%.1f %.1f\n", core.GainToDecibels(0.1), core.GainToDecibels(0))

	// Output:
	// -20.0 -100.0
}

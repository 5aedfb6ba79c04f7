package response

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-pingpong/dsp/core"
)

// Tap is one echo found in a rendered impulse response.
type Tap struct {
	Channel int
	Index   int
	Seconds float64
	Gain    float64
	DB      float64
}

// Taps returns the local peaks of left and right whose magnitude reaches
// cfg.Threshold, ordered by time. A tap split across two neighbouring
// samples by fractional delay is reported once, at the larger sample.
func Taps(left, right []float32, opts ...Option) []Tap {
	cfg := ApplyOptions(opts...)

	var taps []Tap
	for ch, data := range [][]float32{left, right} {
		taps = appendPeaks(taps, ch, data, cfg)
	}

	sort.SliceStable(taps, func(i, j int) bool {
		if taps[i].Index != taps[j].Index {
			return taps[i].Index < taps[j].Index
		}

		return taps[i].Channel < taps[j].Channel
	})

	return taps
}

func appendPeaks(taps []Tap, ch int, data []float32, cfg Config) []Tap {
	for i, v := range data {
		a := math.Abs(float64(v))
		if a < cfg.Threshold {
			continue
		}

		if i > 0 && math.Abs(float64(data[i-1])) >= a {
			continue
		}

		if i+1 < len(data) && math.Abs(float64(data[i+1])) > a {
			continue
		}

		taps = append(taps, Tap{
			Channel: ch,
			Index:   i,
			Seconds: float64(i) / cfg.SampleRate,
			Gain:    a,
			DB:      core.LinearToDB(a),
		})
	}

	return taps
}

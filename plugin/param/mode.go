package param

// PostEffect selects which stages run after the delay.
type PostEffect int

const (
	PostNone PostEffect = iota
	PostDistortion
	PostLowpass
	PostBoth
)

var postEffectNames = []string{"None", "Distortion", "Low Pass", "Distortion + Low Pass"}

// PostEffectFromIndex maps a choice index to a mode. Out-of-range indices
// select PostNone.
func PostEffectFromIndex(i int) PostEffect {
	if i < 0 || i >= len(postEffectNames) {
		return PostNone
	}

	return PostEffect(i)
}

// HasDistortion reports whether the clip stage is active.
func (m PostEffect) HasDistortion() bool {
	return m == PostDistortion || m == PostBoth
}

// HasLowpass reports whether the lowpass stage is active.
func (m PostEffect) HasLowpass() bool {
	return m == PostLowpass || m == PostBoth
}

func (m PostEffect) String() string {
	if m < 0 || int(m) >= len(postEffectNames) {
		return "unknown"
	}

	return postEffectNames[m]
}

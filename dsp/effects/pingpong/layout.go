package pingpong

import "fmt"

// Layout is a bus configuration as negotiated with the host.
type Layout struct {
	Inputs  int
	Outputs int
}

var (
	// Stereo is stereo in, stereo out.
	Stereo = Layout{Inputs: 2, Outputs: 2}
	// MonoToStereo is mono in, stereo out. The input is copied to both sides
	// before processing.
	MonoToStereo = Layout{Inputs: 1, Outputs: 2}
)

// SupportsLayout reports whether the processor can run with l.
func SupportsLayout(l Layout) bool {
	return (l.Inputs == 1 || l.Inputs == 2) && l.Outputs == 2
}

func (l Layout) String() string {
	return fmt.Sprintf("%din/%dout", l.Inputs, l.Outputs)
}

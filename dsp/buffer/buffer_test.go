package buffer

import "testing"

func TestNew(t *testing.T) {
	b := New(2, 8)
	if b.NumChannels() != 2 {
		t.Fatalf("channels = %d, want 2", b.NumChannels())
	}
	if b.Len() != 8 || b.Cap() != 8 {
		t.Fatalf("len/cap = %d/%d, want 8/8", b.Len(), b.Cap())
	}
	for ch := range 2 {
		for i, v := range b.Channel(ch) {
			if v != 0 {
				t.Fatalf("ch%d[%d] = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestNewNegative(t *testing.T) {
	b := New(-1, -5)
	if b.NumChannels() != 0 || b.Cap() != 0 {
		t.Fatalf("got %d channels cap %d, want 0/0", b.NumChannels(), b.Cap())
	}
}

func TestSetLenClamps(t *testing.T) {
	b := New(1, 4)

	b.SetLen(2)
	if got := len(b.Channel(0)); got != 2 {
		t.Fatalf("len = %d, want 2", got)
	}

	b.SetLen(100)
	if b.Len() != 4 {
		t.Fatalf("len = %d, want 4", b.Len())
	}

	b.SetLen(-3)
	if b.Len() != 0 {
		t.Fatalf("len = %d, want 0", b.Len())
	}
}

func TestSetLenDoesNotAllocate(t *testing.T) {
	b := New(2, 256)
	allocs := testing.AllocsPerRun(100, func() {
		b.SetLen(128)
		b.Zero()
		b.SetLen(256)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}

func TestChannelOutOfRange(t *testing.T) {
	b := New(2, 4)
	if b.Channel(2) != nil || b.Channel(-1) != nil {
		t.Fatal("expected nil for out-of-range channel")
	}
}

func TestFromChannelsUsesShortest(t *testing.T) {
	l := []float32{1, 2, 3}
	r := []float32{4, 5}
	b := FromChannels(l, r)
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}

	b.Channel(0)[0] = 9
	if l[0] != 9 {
		t.Fatal("FromChannels should not copy")
	}
}

func TestCopyChannel(t *testing.T) {
	b := FromChannels([]float32{1, 2}, []float32{0, 0})
	b.CopyChannel(1, 0)
	if r := b.Channel(1); r[0] != 1 || r[1] != 2 {
		t.Fatalf("right = %v, want [1 2]", r)
	}

	// Out-of-range requests are ignored.
	b.CopyChannel(5, 0)
	b.CopyChannel(0, 5)
}

func TestCopyIsDeep(t *testing.T) {
	b := FromChannels([]float32{1, 2})
	c := b.Copy()
	b.Channel(0)[0] = 7
	if c.Channel(0)[0] != 1 {
		t.Fatal("Copy shares storage")
	}
}

func TestDeinterleaveLimitedByCapacity(t *testing.T) {
	b := New(2, 2)
	n := b.Deinterleave([]float32{1, 2, 3, 4, 5, 6})
	if n != 2 || b.Len() != 2 {
		t.Fatalf("frames = %d len = %d, want 2", n, b.Len())
	}
	if l := b.Channel(0); l[0] != 1 || l[1] != 3 {
		t.Fatalf("left = %v", l)
	}
}

func TestInterleaveLimitedByDst(t *testing.T) {
	b := FromChannels([]float32{1, 2, 3}, []float32{4, 5, 6})
	dst := make([]float32, 5)
	n := b.Interleave(dst)
	if n != 2 {
		t.Fatalf("frames = %d, want 2", n)
	}
	want := []float32{1, 4, 2, 5, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

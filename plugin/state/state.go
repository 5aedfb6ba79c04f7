// Package state saves and restores the parameter store as a small binary
// blob.
//
// Layout, little endian:
//
//	"PPDL"  magic
//	uint32  version
//	uint32  entry count
//	entries: uint16 id length, id bytes, float32 plain value
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-pingpong/plugin/param"
)

// Version is the blob version written by Save.
const Version uint32 = 1

const (
	magic      = "PPDL"
	maxEntries = 1024
)

var (
	// ErrInvalidFormat is returned when the blob does not start with the
	// expected magic or is structurally broken.
	ErrInvalidFormat = errors.New("state: invalid format")

	// ErrUnsupportedVersion is returned for blobs newer than Version.
	ErrUnsupportedVersion = errors.New("state: unsupported version")
)

type entry struct {
	id    param.ID
	value float32
}

// Save writes every parameter of store to w.
func Save(w io.Writer, store *param.Store) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}

	params := store.Params()
	header := [2]uint32{Version, uint32(len(params))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range params {
		id := string(p.ID())
		if err := binary.Write(w, binary.LittleEndian, uint16(len(id))); err != nil {
			return fmt.Errorf("write %q: %w", id, err)
		}

		if _, err := io.WriteString(w, id); err != nil {
			return fmt.Errorf("write %q: %w", id, err)
		}

		if err := binary.Write(w, binary.LittleEndian, math.Float32bits(p.Value())); err != nil {
			return fmt.Errorf("write %q: %w", id, err)
		}
	}

	return nil
}

// Load reads a blob written by Save into store. The whole blob is parsed
// before anything is applied, so a broken blob leaves store unchanged.
// Unknown ids are ignored, parameters missing from the blob return to their
// defaults, and values are clamped to range.
func Load(r io.Reader, store *param.Store) error {
	entries, err := decode(r)
	if err != nil {
		return err
	}

	values := make(map[param.ID]float32, len(entries))
	for _, e := range entries {
		values[e.id] = e.value
	}

	for _, p := range store.Params() {
		if v, ok := values[p.ID()]; ok {
			p.Set(v)
		} else {
			p.Reset()
		}
	}

	return nil
}

// Marshal returns the blob for store.
func Marshal(store *param.Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, store); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal applies a blob produced by Marshal to store.
func Unmarshal(data []byte, store *param.Store) error {
	return Load(bytes.NewReader(data), store)
}

func decode(r io.Reader) ([]entry, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", ErrInvalidFormat)
	}

	if string(head[:]) != magic {
		return nil, fmt.Errorf("magic %q: %w", head[:], ErrInvalidFormat)
	}

	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read header: %w", ErrInvalidFormat)
	}

	version, count := header[0], header[1]
	if version == 0 || version > Version {
		return nil, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}

	if count > maxEntries {
		return nil, fmt.Errorf("%d entries: %w", count, ErrInvalidFormat)
	}

	entries := make([]entry, 0, count)
	for i := range count {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, ErrInvalidFormat)
		}

		id := make([]byte, n)
		if _, err := io.ReadFull(r, id); err != nil {
			return nil, fmt.Errorf("entry %d id: %w", i, ErrInvalidFormat)
		}

		var bits uint32
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return nil, fmt.Errorf("entry %d value: %w", i, ErrInvalidFormat)
		}

		entries = append(entries, entry{id: param.ID(id), value: math.Float32frombits(bits)})
	}

	return entries, nil
}

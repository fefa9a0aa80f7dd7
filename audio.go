package amdapi

import (
	"encoding/binary"
)

// wavInfo describes the format of an uploaded recording.
type wavInfo struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

func (w wavInfo) stereo() bool { return w.Channels == 2 }

// probeWAV validates the RIFF/WAVE structure of data and reports its format.
// Chunks before "fmt " (JUNK, LIST and friends) are skipped; the payload
// itself is passed through to the backend unchanged.
func probeWAV(data []byte) (wavInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavInfo{}, &ValidationError{Field: "audio", Message: "not a RIFF/WAVE file"}
	}

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8

		if id == "fmt " {
			if size < 16 || body+16 > len(data) {
				return wavInfo{}, &ValidationError{Field: "audio", Message: "truncated fmt chunk"}
			}
			channels := int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			if channels != 1 && channels != 2 {
				return wavInfo{}, &ValidationError{Field: "audio", Message: "only mono and stereo recordings are supported"}
			}
			return wavInfo{
				Channels:      channels,
				SampleRate:    int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}, nil
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		off = body + size + size%2
	}

	return wavInfo{}, &ValidationError{Field: "audio", Message: "missing fmt chunk"}
}

package speech

import (
	"bytes"
	"encoding/binary"
	"time"
)

// TrimWAV cuts the PCM data chunk of a RIFF/WAVE clip to at most limit of
// audio and patches the size fields. Input that is not a parseable WAV file
// is returned unchanged.
func TrimWAV(data []byte, limit time.Duration) ([]byte, bool) {
	if limit <= 0 || len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return data, false
	}
	var byteRate uint32
	blockAlign := uint32(1)
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		body := offset + 8
		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return data, false
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
			if align := binary.LittleEndian.Uint16(data[body+12 : body+14]); align > 0 {
				blockAlign = uint32(align)
			}
		case "data":
			if byteRate == 0 {
				return data, false
			}
			available := uint32(len(data) - body)
			if size > available {
				size = available
			}
			maxBytes := uint32(float64(byteRate) * limit.Seconds())
			maxBytes -= maxBytes % blockAlign
			if size <= maxBytes {
				return data, false
			}
			out := make([]byte, body+int(maxBytes))
			copy(out, data[:body+int(maxBytes)])
			binary.LittleEndian.PutUint32(out[offset+4:offset+8], maxBytes)
			binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
			return out, true
		}
		next := body + int(size)
		if size%2 == 1 {
			next++
		}
		if next <= offset {
			return data, false
		}
		offset = next
	}
	return data, false
}

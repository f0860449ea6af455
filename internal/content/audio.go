package content

import (
	"encoding/base64"
	"encoding/binary"
)

// Speech model output format: raw 16-bit little-endian PCM, 24 kHz mono.
const (
	speechSampleRate = 24000
	speechChannels   = 1
	speechBitDepth   = 16
)

// WAVFromPCM16 wraps raw 16-bit little-endian PCM samples in a RIFF/WAVE
// container so the bytes can be played directly.
func WAVFromPCM16(pcm []byte, sampleRate, channels int) []byte {
	blockAlign := channels * speechBitDepth / 8
	byteRate := sampleRate * blockAlign

	out := make([]byte, 0, 44+len(pcm))
	out = append(out, []byte("RIFF")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(pcm)))
	out = append(out, []byte("WAVE")...)

	out = append(out, []byte("fmt ")...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(channels))
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, speechBitDepth)

	out = append(out, []byte("data")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

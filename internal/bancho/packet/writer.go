package packet

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
)

// Writer provides methods for writing packet data.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
	// headerAt is the offset of the last Begin() header, -1 if none open.
	headerAt int
}

// writerPool reduces allocations by reusing Writers.
var writerPool = sync.Pool{
	New: func() any {
		return &Writer{
			buf:      bytes.NewBuffer(make([]byte, 0, 512)),
			headerAt: -1,
		}
	},
}

// Get returns a Writer from the pool (already Reset).
func Get() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

// Put returns a Writer to the pool for reuse.
// Do not use the Writer (or slices obtained from Bytes) after calling Put.
func (w *Writer) Put() {
	writerPool.Put(w)
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf:      bytes.NewBuffer(make([]byte, 0, capacity)),
		headerAt: -1,
	}
}

// Begin writes a frame header for packet id with a zero length field.
// The length is backfilled by Finish once the payload is known.
func (w *Writer) Begin(id uint16) {
	w.headerAt = w.buf.Len()
	w.WriteUShort(id)
	w.buf.WriteByte(0) // reserved
	w.WriteUInt(0)     // payload length, backfilled in Finish
}

// Finish backfills the payload length of the frame opened by Begin.
func (w *Writer) Finish() {
	if w.headerAt < 0 {
		return
	}
	b := w.buf.Bytes()
	payloadLen := len(b) - w.headerAt - HeaderSize
	binary.LittleEndian.PutUint32(b[w.headerAt+3:], uint32(payloadLen))
	w.headerAt = -1
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	return w.buf.WriteByte(b)
}

// WriteBool writes a bool as one byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteShort writes an int16 (2 bytes, LE).
func (w *Writer) WriteShort(val int16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteUShort writes a uint16 (2 bytes, LE).
func (w *Writer) WriteUShort(val uint16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteInt writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt(val int32) {
	w.WriteUInt(uint32(val))
}

// WriteUInt writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUInt(val uint32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteLong writes an int64 (8 bytes, LE).
func (w *Writer) WriteLong(val int64) {
	w.WriteUInt(uint32(val))
	w.WriteUInt(uint32(val >> 32))
}

// WriteFloat writes a float32 (4 bytes, LE).
func (w *Writer) WriteFloat(val float32) {
	w.WriteUInt(math.Float32bits(val))
}

// WriteDouble writes a float64 (8 bytes, LE).
func (w *Writer) WriteDouble(val float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(val))
	w.buf.Write(tmp[:])
}

// WriteULEB128 writes an unsigned LEB128-encoded integer.
func (w *Writer) WriteULEB128(val uint64) {
	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if val == 0 {
			return
		}
	}
}

// WriteString writes a Bancho string: 0x00 for empty, otherwise 0x0B
// followed by a ULEB128 length and the UTF-8 bytes.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.buf.WriteByte(0x00)
		return
	}
	w.buf.WriteByte(0x0B)
	w.WriteULEB128(uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteIntList writes a uint16 count followed by the int32 values.
func (w *Writer) WriteIntList(vals []int32) {
	w.WriteUShort(uint16(len(vals)))
	for _, v := range vals {
		w.WriteInt(v)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated packet data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// BytesCopy returns a copy of the accumulated packet data, safe to retain
// after the Writer goes back to the pool.
func (w *Writer) BytesCopy() []byte {
	b := w.buf.Bytes()
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// Len returns the current length of the packet.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.headerAt = -1
}

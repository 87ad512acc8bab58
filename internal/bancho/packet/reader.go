package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

// HeaderSize is the size of a Bancho frame header:
// packet id (uint16) + reserved byte + payload length (uint32).
const HeaderSize = 7

// Reader provides methods for reading packet data.
// Uses Little-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadShort reads an int16 (2 bytes, LE).
func (r *Reader) ReadShort() (int16, error) {
	v, err := r.ReadUShort()
	return int16(v), err
}

// ReadUShort reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUShort() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUShort: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadInt reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadUInt()
	return int32(v), err
}

// ReadUInt reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUInt() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUInt: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadLong reads an int64 (8 bytes, LE).
func (r *Reader) ReadLong() (int64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadLong: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	v := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

// ReadFloat reads a float32 (4 bytes, LE).
func (r *Reader) ReadFloat() (float32, error) {
	bits, err := r.ReadUInt()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadDouble reads a float64 (8 bytes, LE).
func (r *Reader) ReadDouble() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadDouble: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	bits := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadULEB128 reads an unsigned LEB128-encoded integer.
func (r *Reader) ReadULEB128() (uint64, error) {
	var val uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("ReadULEB128: %w", err)
		}
		val |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return val, nil
		}
		shift += 7
		if shift > 63 {
			return 0, fmt.Errorf("ReadULEB128: value overflows 64 bits")
		}
	}
}

// ReadString reads a Bancho string: a one-byte presence marker
// (0x00 = empty, 0x0B = present), then a ULEB128 length, then UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	switch marker {
	case 0x00:
		return "", nil
	case 0x0B:
	default:
		return "", fmt.Errorf("ReadString: invalid marker 0x%02X", marker)
	}

	length, err := r.ReadULEB128()
	if err != nil {
		return "", fmt.Errorf("ReadString: %w", err)
	}
	if length > uint64(r.Remaining()) {
		return "", fmt.Errorf("ReadString: length %d exceeds remaining %d", length, r.Remaining())
	}

	s := string(r.data[r.pos : r.pos+int(length)])
	r.pos += int(length)
	return s, nil
}

// ReadIntList reads a uint16 count followed by count int32 values.
func (r *Reader) ReadIntList() ([]int32, error) {
	count, err := r.ReadUShort()
	if err != nil {
		return nil, fmt.Errorf("ReadIntList: %w", err)
	}
	return r.readInts(int(count))
}

// ReadIntListLong reads a uint32 count followed by count int32 values.
// Alternate wire form used by a handful of legacy packets.
func (r *Reader) ReadIntListLong() ([]int32, error) {
	count, err := r.ReadUInt()
	if err != nil {
		return nil, fmt.Errorf("ReadIntListLong: %w", err)
	}
	return r.readInts(int(count))
}

func (r *Reader) readInts(count int) ([]int32, error) {
	if count < 0 || count*4 > r.Remaining() {
		return nil, fmt.Errorf("int list: count %d exceeds remaining %d bytes", count, r.Remaining())
	}
	vals := make([]int32, 0, count)
	for range count {
		v, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// ReadBytes reads n bytes as a subslice of the internal data, no copy.
// Caller must not modify the returned bytes; use ReadBytesCopy for mutation.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("ReadBytes: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytesCopy reads n bytes and returns a mutable copy.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, n)
	copy(cp, b)
	return cp, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}

// Frame is one decoded Bancho frame: packet id plus its raw payload.
type Frame struct {
	ID      uint16
	Payload []byte
}

// ReadFrame reads one length-prefixed frame. The payload is a zero-copy
// subslice of the reader's data.
func (r *Reader) ReadFrame() (Frame, error) {
	id, err := r.ReadUShort()
	if err != nil {
		return Frame{}, fmt.Errorf("reading frame id: %w", err)
	}
	if _, err := r.ReadByte(); err != nil { // reserved
		return Frame{}, fmt.Errorf("reading frame reserved byte: %w", err)
	}
	length, err := r.ReadUInt()
	if err != nil {
		return Frame{}, fmt.Errorf("reading frame length: %w", err)
	}
	payload, err := r.ReadBytes(int(length))
	if err != nil {
		return Frame{}, fmt.Errorf("reading frame payload (id=%d, len=%d): %w", id, length, err)
	}
	return Frame{ID: id, Payload: payload}, nil
}

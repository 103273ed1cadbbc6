package codec

import (
	"encoding/binary"
	"math"

	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
)

// Writer accumulates an encoded message. Offsets used for alignment are
// relative to the start of the message, matching the counterpart surface.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteSize writes a length prefix: one byte below 254, 254 plus uint16
// up to 0xffff, otherwise 255 plus uint32.
func (w *Writer) WriteSize(n int) {
	switch {
	case n < 254:
		w.buf = append(w.buf, byte(n))
	case n <= 0xffff:
		w.buf = append(w.buf, 254)
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(n))
	default:
		w.buf = append(w.buf, 255)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(n))
	}
}

func (w *Writer) WriteInt32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteInt64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) WriteFloat32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteAlignment pads with zero bytes until the length is a multiple of n.
func (w *Writer) WriteAlignment(n int) {
	if mod := len(w.buf) % n; mod != 0 {
		for i := 0; i < n-mod; i++ {
			w.buf = append(w.buf, 0)
		}
	}
}

// Reader walks an encoded message. Every read is bounds checked and reports
// a DecodeError instead of panicking on truncated input.
type Reader struct {
	buf []byte
	pos int
	tag int
}

// NewReader wraps data for decoding.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data, tag: -1}
}

func (r *Reader) Pos() int { return r.pos }

func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) fail(detail string) error {
	return errspkg.NewDecodeError(r.pos, r.tag, detail)
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return r.fail("unexpected end of message")
	}
	return nil
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *Reader) ReadSize() (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b < 254:
		return int(b), nil
	case b == 254:
		if err := r.need(2); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint16(r.buf[r.pos:])
		r.pos += 2
		return int(v), nil
	default:
		if err := r.need(4); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint32(r.buf[r.pos:])
		r.pos += 4
		if uint64(v) > uint64(math.MaxInt32) {
			return 0, r.fail("size prefix out of range")
		}
		return int(v), nil
	}
}

func (r *Reader) ReadInt32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return int32(v), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return int64(v), nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadInt32()
	return math.Float32frombits(uint32(v)), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadInt64()
	return math.Float64frombits(uint64(v)), err
}

// ReadAlignment skips padding so the position is a multiple of n.
func (r *Reader) ReadAlignment(n int) error {
	if mod := r.pos % n; mod != 0 {
		if err := r.need(n - mod); err != nil {
			return err
		}
		r.pos += n - mod
	}
	return nil
}

// Package dicomio implements the low-level binary codec used by the dicom
// package: a limit-aware Decoder and an in-memory Encoder, both with a stack
// of transfer syntaxes.
//
// Errors are sticky. Once an operation fails, subsequent reads return zero
// values and the first error is reported by Error() and Finish().
package dicomio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
)

// IsImplicitVR defines whether a 2-character VR tag is emit with each data
// element.
type IsImplicitVR int

const (
	// ImplicitVR encodes a data element without a VR tag. The reader
	// consults the static dictionary to find the VR.
	ImplicitVR IsImplicitVR = iota
	// ExplicitVR stores the 2-byte VR value inline with each element.
	ExplicitVR
	// UnknownVR is to be used when you never encode or decode DataElement.
	UnknownVR
)

func (v IsImplicitVR) String() string {
	switch v {
	case ImplicitVR:
		return "implicit"
	case ExplicitVR:
		return "explicit"
	default:
		return "unknown"
	}
}

// CodingSystem defines how a []byte is translated into a utf8 string.
type CodingSystem struct {
	// VR="PN" is the only place where we potentially use all three
	// decoders. For all other VR types, only Ideographic decoder is used.
	// See P3.5, 6.2.
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// CodingSystemType selects one of the decoders in a CodingSystem.
type CodingSystemType int

const (
	AlphabeticCodingSystem CodingSystemType = iota
	IdeographicCodingSystem
	PhoneticCodingSystem
)

type transferSyntaxStackEntry struct {
	bo       binary.ByteOrder
	implicit IsImplicitVR
}

// Decoder reads binary values from an io.Reader, never crossing the
// innermost limit set by PushLimit.
type Decoder struct {
	in  io.Reader
	err error

	bo       binary.ByteOrder
	implicit IsImplicitVR

	// Cumulative # bytes read.
	pos int64
	// Max bytes to read. PushLimit() will add a new limit, and PopLimit()
	// will restore the old limit. The newest limit is at the end.
	//
	// INVARIANT: limits[] store values in decreasing order.
	limits []int64

	stateStack   []transferSyntaxStackEntry
	codingSystem CodingSystem
}

// NewDecoder creates a decoder that reads at most "limit" bytes from "in".
func NewDecoder(
	in io.Reader,
	limit int64,
	bo binary.ByteOrder,
	implicit IsImplicitVR) *Decoder {
	return &Decoder{
		in:       in,
		bo:       bo,
		implicit: implicit,
		limits:   []int64{limit},
	}
}

// NewBytesDecoder is shorthand for NewDecoder(bytes.NewReader(data), len(data), ...).
func NewBytesDecoder(data []byte, bo binary.ByteOrder, implicit IsImplicitVR) *Decoder {
	return NewDecoder(bytes.NewReader(data), int64(len(data)), bo, implicit)
}

// SetError records err unless an earlier error has been recorded already.
func (d *Decoder) SetError(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

// Error returns the first error encountered, if any.
func (d *Decoder) Error() error { return d.err }

// Finish must be called after all the data is consumed. It returns an error
// if the decoder failed, or if there is unread data within the outer limit.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.Len() != 0 {
		return fmt.Errorf("decoder found junk (%d bytes remaining)", d.Len())
	}
	return nil
}

// TransferSyntax returns the byte order and VR encoding currently in effect.
func (d *Decoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return d.bo, d.implicit
}

// PushTransferSyntax temporarily changes the encoding format. PopTransferSyntax
// restores the previous one.
func (d *Decoder) PushTransferSyntax(bo binary.ByteOrder, implicit IsImplicitVR) {
	d.stateStack = append(d.stateStack, transferSyntaxStackEntry{d.bo, d.implicit})
	d.bo = bo
	d.implicit = implicit
}

// PopTransferSyntax restores the encoding format active before the last
// PushTransferSyntax.
func (d *Decoder) PopTransferSyntax() {
	e := d.stateStack[len(d.stateStack)-1]
	d.bo = e.bo
	d.implicit = e.implicit
	d.stateStack = d.stateStack[:len(d.stateStack)-1]
}

// SetCodingSystem overrides the []byte -> string conversion used by
// ReadStringWithCodingSystem.
func (d *Decoder) SetCodingSystem(cs CodingSystem) {
	d.codingSystem = cs
}

// PushLimit temporarily restricts reads to the next "bytes" bytes. A limit
// that extends past the enclosing one is an error; the enclosing limit is
// kept so that PopLimit stays balanced.
func (d *Decoder) PushLimit(bytes int64) {
	newLimit := d.pos + bytes
	if bytes < 0 || newLimit > d.limits[len(d.limits)-1] {
		d.SetError(fmt.Errorf("limit %d bytes at offset %d exceeds the enclosing limit (%d bytes remaining)",
			bytes, d.pos, d.Len()))
		newLimit = d.limits[len(d.limits)-1]
	}
	d.limits = append(d.limits, newLimit)
}

// PopLimit restores the limit active before the last PushLimit.
func (d *Decoder) PopLimit() {
	d.limits = d.limits[:len(d.limits)-1]
}

// Pos returns the number of bytes consumed so far.
func (d *Decoder) Pos() int64 { return d.pos }

// Len returns the number of bytes that can still be read under the current
// limit.
func (d *Decoder) Len() int64 {
	return d.limits[len(d.limits)-1] - d.pos
}

// Read implements io.Reader.
func (d *Decoder) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	desired := d.Len()
	if desired <= 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	if desired < int64(len(p)) {
		p = p[:desired]
	}
	n, err := d.in.Read(p)
	d.pos += int64(n)
	return n, err
}

func (d *Decoder) readValue(v interface{}) {
	if d.err != nil {
		return
	}
	if err := binary.Read(d, d.bo, v); err != nil {
		d.SetError(err)
	}
}

// ReadUInt8 reads a single byte.
func (d *Decoder) ReadUInt8() (v uint8) {
	d.readValue(&v)
	return v
}

// ReadUInt16 reads a uint16 in the current byte order.
func (d *Decoder) ReadUInt16() (v uint16) {
	d.readValue(&v)
	return v
}

// ReadUInt32 reads a uint32 in the current byte order.
func (d *Decoder) ReadUInt32() (v uint32) {
	d.readValue(&v)
	return v
}

// ReadInt16 reads an int16 in the current byte order.
func (d *Decoder) ReadInt16() (v int16) {
	d.readValue(&v)
	return v
}

// ReadInt32 reads an int32 in the current byte order.
func (d *Decoder) ReadInt32() (v int32) {
	d.readValue(&v)
	return v
}

// ReadFloat32 reads an IEEE float32 in the current byte order.
func (d *Decoder) ReadFloat32() (v float32) {
	d.readValue(&v)
	return v
}

// ReadFloat64 reads an IEEE float64 in the current byte order.
func (d *Decoder) ReadFloat64() (v float64) {
	d.readValue(&v)
	return v
}

// ReadString reads "length" bytes and returns them verbatim as a string.
func (d *Decoder) ReadString(length int) string {
	return string(d.ReadBytes(length))
}

// ReadStringWithCodingSystem reads "length" bytes and converts them to utf8
// using the decoder of the given type. Without a decoder the bytes are
// returned as-is.
func (d *Decoder) ReadStringWithCodingSystem(csType CodingSystemType, length int) string {
	data := d.ReadBytes(length)
	var decoder *encoding.Decoder
	switch csType {
	case AlphabeticCodingSystem:
		decoder = d.codingSystem.Alphabetic
	case IdeographicCodingSystem:
		decoder = d.codingSystem.Ideographic
	case PhoneticCodingSystem:
		decoder = d.codingSystem.Phonetic
	}
	if decoder == nil {
		return string(data)
	}
	decoded, err := decoder.Bytes(data)
	if err != nil {
		d.SetError(err)
		return ""
	}
	return string(decoded)
}

// ReadBytes reads exactly "length" bytes.
func (d *Decoder) ReadBytes(length int) []byte {
	if d.err != nil {
		return nil
	}
	if length < 0 || int64(length) > d.Len() {
		d.SetError(fmt.Errorf("ReadBytes: requested %d, remaining %d", length, d.Len()))
		return nil
	}
	v := make([]byte, length)
	if _, err := io.ReadFull(d, v); err != nil {
		d.SetError(err)
		return nil
	}
	return v
}

// Skip discards the next "bytes" bytes.
func (d *Decoder) Skip(bytes int) {
	_ = d.ReadBytes(bytes)
}

// Encoder accumulates binary values in memory.
type Encoder struct {
	buf bytes.Buffer
	err error

	bo       binary.ByteOrder
	implicit IsImplicitVR

	stateStack []transferSyntaxStackEntry

	// Converts utf8 strings to the character set declared by the data set.
	// nil means strings are written as-is.
	stringEncoder *encoding.Encoder
}

// NewEncoder creates an empty encoder for the given transfer syntax.
func NewEncoder(bo binary.ByteOrder, implicit IsImplicitVR) *Encoder {
	return &Encoder{bo: bo, implicit: implicit}
}

// NewSubEncoder creates an empty encoder that shares e's transfer syntax and
// string encoder. It is used to measure the length of nested values.
func NewSubEncoder(e *Encoder) *Encoder {
	sub := NewEncoder(e.bo, e.implicit)
	sub.stringEncoder = e.stringEncoder
	return sub
}

// SetError records err unless an earlier error has been recorded already.
func (e *Encoder) SetError(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

// Error returns the first error encountered, if any.
func (e *Encoder) Error() error { return e.err }

// Finish returns the encoded bytes, or the first error encountered.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// TransferSyntax returns the byte order and VR encoding currently in effect.
func (e *Encoder) TransferSyntax() (binary.ByteOrder, IsImplicitVR) {
	return e.bo, e.implicit
}

// PushTransferSyntax temporarily changes the encoding format.
func (e *Encoder) PushTransferSyntax(bo binary.ByteOrder, implicit IsImplicitVR) {
	e.stateStack = append(e.stateStack, transferSyntaxStackEntry{e.bo, e.implicit})
	e.bo = bo
	e.implicit = implicit
}

// PopTransferSyntax restores the encoding format active before the last
// PushTransferSyntax.
func (e *Encoder) PopTransferSyntax() {
	s := e.stateStack[len(e.stateStack)-1]
	e.bo = s.bo
	e.implicit = s.implicit
	e.stateStack = e.stateStack[:len(e.stateStack)-1]
}

// SetStringEncoder sets the utf8 -> []byte conversion used by
// EncodeStringWithCodingSystem.
func (e *Encoder) SetStringEncoder(enc *encoding.Encoder) {
	e.stringEncoder = enc
}

func (e *Encoder) writeValue(v interface{}) {
	if err := binary.Write(&e.buf, e.bo, v); err != nil {
		e.SetError(err)
	}
}

func (e *Encoder) WriteUInt8(v uint8)     { e.writeValue(v) }
func (e *Encoder) WriteUInt16(v uint16)   { e.writeValue(v) }
func (e *Encoder) WriteUInt32(v uint32)   { e.writeValue(v) }
func (e *Encoder) WriteInt16(v int16)     { e.writeValue(v) }
func (e *Encoder) WriteInt32(v int32)     { e.writeValue(v) }
func (e *Encoder) WriteFloat32(v float32) { e.writeValue(v) }
func (e *Encoder) WriteFloat64(v float64) { e.writeValue(v) }

// WriteString writes the bytes of v with no conversion.
func (e *Encoder) WriteString(v string) {
	e.buf.WriteString(v)
}

// EncodeStringWithCodingSystem converts v to the data set's character set.
func (e *Encoder) EncodeStringWithCodingSystem(v string) []byte {
	if e.stringEncoder == nil {
		return []byte(v)
	}
	encoded, err := e.stringEncoder.Bytes([]byte(v))
	if err != nil {
		e.SetError(fmt.Errorf("encode %q: %w", v, err))
		return nil
	}
	return encoded
}

// WriteBytes writes v verbatim.
func (e *Encoder) WriteBytes(v []byte) {
	e.buf.Write(v)
}

// WriteZeros writes n zero bytes.
func (e *Encoder) WriteZeros(n int) {
	e.buf.Write(make([]byte, n))
}

package dicomio_test

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/fquilmes/coma2punto/dicom/dicomio"
)

func TestBasic(t *testing.T) {
	e := dicomio.NewEncoder(binary.BigEndian, dicomio.ImplicitVR)
	e.WriteUInt8(10)
	e.WriteUInt8(11)
	e.WriteUInt16(0x123)
	e.WriteUInt32(0x234)
	e.WriteZeros(12)
	e.WriteString("abcde")

	encoded, err := e.Finish()
	require.NoError(t, err)

	d := dicomio.NewBytesDecoder(encoded, binary.BigEndian, dicomio.ImplicitVR)
	assert.Equal(t, uint8(10), d.ReadUInt8())
	assert.Equal(t, uint8(11), d.ReadUInt8())
	assert.Equal(t, uint16(0x123), d.ReadUInt16())
	assert.Equal(t, uint32(0x234), d.ReadUInt32())
	d.Skip(12)
	assert.Equal(t, "abcde", d.ReadString(5))
	assert.Equal(t, int64(0), d.Len())
	assert.NoError(t, d.Error())

	// Read past the buffer. It should flag an error
	_ = d.ReadUInt8()
	assert.Error(t, d.Error())
}

func TestFloatsAndSignedValues(t *testing.T) {
	e := dicomio.NewEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.WriteInt16(-3)
	e.WriteInt32(-70000)
	e.WriteFloat32(1.5)
	e.WriteFloat64(-2.25)
	encoded, err := e.Finish()
	require.NoError(t, err)
	assert.Len(t, encoded, 2+4+4+8)

	d := dicomio.NewBytesDecoder(encoded, binary.LittleEndian, dicomio.ExplicitVR)
	assert.Equal(t, int16(-3), d.ReadInt16())
	assert.Equal(t, int32(-70000), d.ReadInt32())
	assert.Equal(t, float32(1.5), d.ReadFloat32())
	assert.Equal(t, -2.25, d.ReadFloat64())
	assert.NoError(t, d.Finish())
}

func TestPartialData(t *testing.T) {
	e := dicomio.NewEncoder(binary.BigEndian, dicomio.ImplicitVR)
	e.WriteUInt8(10)
	encoded, err := e.Finish()
	require.NoError(t, err)

	// Read uint16, when there's only one byte in buffer.
	d := dicomio.NewBytesDecoder(encoded, binary.BigEndian, dicomio.ImplicitVR)
	_ = d.ReadUInt16()
	assert.Error(t, d.Error())
}

func TestLimit(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{10, 11, 12}, binary.BigEndian, dicomio.ImplicitVR)
	assert.Equal(t, int64(3), d.Len())

	// Allow reading only the first two bytes
	d.PushLimit(2)
	assert.Equal(t, int64(2), d.Len())
	v0, v1 := d.ReadUInt8(), d.ReadUInt8()
	assert.Equal(t, int64(0), d.Len())
	_ = d.ReadUInt8()
	assert.Equal(t, uint8(10), v0)
	assert.Equal(t, uint8(11), v1)
	assert.Equal(t, io.EOF, d.Error())
}

func TestLimitPastEnclosingLimit(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1, 2, 3}, binary.LittleEndian, dicomio.ImplicitVR)
	d.PushLimit(10)
	assert.Error(t, d.Error())
	d.PopLimit()
	assert.Equal(t, int64(3), d.Len())
}

func TestReadBytesLargerThanRemaining(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1, 2}, binary.LittleEndian, dicomio.ImplicitVR)
	assert.Nil(t, d.ReadBytes(1 << 30))
	assert.Error(t, d.Error())
	// Sticky: later reads don't clear the error.
	_ = d.ReadUInt8()
	assert.Contains(t, d.Error().Error(), "ReadBytes")
}

func TestFinishReportsJunk(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{1, 2, 3, 4}, binary.LittleEndian, dicomio.ImplicitVR)
	_ = d.ReadUInt16()
	assert.Error(t, d.Finish())
}

func TestTransferSyntaxStack(t *testing.T) {
	d := dicomio.NewBytesDecoder([]byte{0, 1, 1, 0}, binary.LittleEndian, dicomio.ExplicitVR)
	d.PushTransferSyntax(binary.BigEndian, dicomio.ImplicitVR)
	bo, implicit := d.TransferSyntax()
	assert.Equal(t, binary.BigEndian, bo)
	assert.Equal(t, dicomio.ImplicitVR, implicit)
	assert.Equal(t, uint16(1), d.ReadUInt16())
	d.PopTransferSyntax()
	bo, implicit = d.TransferSyntax()
	assert.Equal(t, binary.LittleEndian, bo)
	assert.Equal(t, dicomio.ExplicitVR, implicit)
	assert.Equal(t, uint16(1), d.ReadUInt16())
}

func TestCodingSystem(t *testing.T) {
	latin1 := []byte("Pe\xf1a")
	d := dicomio.NewBytesDecoder(latin1, binary.LittleEndian, dicomio.ExplicitVR)
	dec := charmap.ISO8859_1.NewDecoder()
	d.SetCodingSystem(dicomio.CodingSystem{Alphabetic: dec, Ideographic: dec, Phonetic: dec})
	assert.Equal(t, "Peña", d.ReadStringWithCodingSystem(dicomio.AlphabeticCodingSystem, len(latin1)))

	e := dicomio.NewEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	e.SetStringEncoder(charmap.ISO8859_1.NewEncoder())
	sub := dicomio.NewSubEncoder(e)
	assert.Equal(t, latin1, sub.EncodeStringWithCodingSystem("Peña"))
	require.NoError(t, sub.Error())
}

func TestParseTransferSyntaxUID(t *testing.T) {
	tests := []struct {
		uid      string
		bo       binary.ByteOrder
		implicit dicomio.IsImplicitVR
		wantErr  bool
	}{
		{dicomio.ImplicitVRLittleEndian, binary.LittleEndian, dicomio.ImplicitVR, false},
		{dicomio.ExplicitVRLittleEndian, binary.LittleEndian, dicomio.ExplicitVR, false},
		{dicomio.ExplicitVRBigEndian, binary.BigEndian, dicomio.ExplicitVR, false},
		{"1.2.840.10008.1.2.4.50", binary.LittleEndian, dicomio.ExplicitVR, false},
		{"1.2.840.10008.1.2\x00", binary.LittleEndian, dicomio.ImplicitVR, false},
		{dicomio.DeflatedExplicitVRLittleEndian, nil, dicomio.UnknownVR, true},
		{"1.2.3.4", nil, dicomio.UnknownVR, true},
	}
	for _, tt := range tests {
		t.Run(tt.uid, func(t *testing.T) {
			bo, implicit, err := dicomio.ParseTransferSyntaxUID(tt.uid)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bo, bo)
			assert.Equal(t, tt.implicit, implicit)
		})
	}
}

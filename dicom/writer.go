package dicom

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fquilmes/coma2punto/dicom/dicomio"
)

// WriteDataSetToFile writes "ds" to the given file. If the file already
// exists, it is truncated.
func WriteDataSetToFile(path string, ds *DataSet) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDataSet(out, ds); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteDataSet writes the dataset into the stream in DICOM file format,
// complete with the magic header and metadata elements. The body is encoded
// in the transfer syntax declared by the meta elements. Sequences and items
// are always written with defined lengths.
func WriteDataSet(out io.Writer, ds *DataSet) error {
	transferSyntaxUID, err := ds.TransferSyntaxUID()
	if err != nil {
		return err
	}
	endian, implicit, err := dicomio.ParseTransferSyntaxUID(transferSyntaxUID)
	if err != nil {
		return err
	}
	var metaElems, bodyElems []*Element
	for _, elem := range ds.Elements {
		if elem.Tag.Group == TagMetadataGroup {
			if elem.Tag != TagMetaElementGroupLength {
				metaElems = append(metaElems, elem)
			}
			continue
		}
		bodyElems = append(bodyElems, elem)
	}
	e := dicomio.NewEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	WriteFileHeader(e, metaElems)
	if e.Error() != nil {
		return e.Error()
	}
	if cs, ok := ds.LookupElementByTag(TagSpecificCharacterSet); ok {
		enc, err := stringEncoder(cs)
		if err != nil {
			return err
		}
		e.SetStringEncoder(enc)
	}
	e.PushTransferSyntax(endian, implicit)
	for _, elem := range bodyElems {
		WriteDataElement(e, elem)
	}
	e.PopTransferSyntax()
	data, err := e.Finish()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// WriteFileHeader is the inverse of ParseFileHeader. It writes the preamble,
// the magic word, a freshly computed MetaElementGroupLength and the given
// meta elements. Errors are reported via e.Error().
func WriteFileHeader(e *dicomio.Encoder, metaElems []*Element) {
	e.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer e.PopTransferSyntax()

	// Encode the meta info first.
	subEncoder := dicomio.NewEncoder(binary.LittleEndian, dicomio.ExplicitVR)
	tsFound := false
	for _, elem := range metaElems {
		if elem.Tag == TagTransferSyntaxUID {
			tsFound = true
		}
		WriteDataElement(subEncoder, elem)
	}
	if !tsFound {
		e.SetError(fmt.Errorf("%w: %s", ErrElementNotFound, TagString(TagTransferSyntaxUID)))
		return
	}
	metaBytes, err := subEncoder.Finish()
	if err != nil {
		e.SetError(err)
		return
	}

	e.WriteZeros(128)
	e.WriteString(magicWord)
	WriteDataElement(e, &Element{
		Tag:   TagMetaElementGroupLength,
		VR:    "UL",
		Value: []interface{}{uint32(len(metaBytes))},
	})
	e.WriteBytes(metaBytes)
}

// WriteDataElement encodes one data element, including nested sequences and
// items. Errors are reported through e.Error() and/or e.Finish().
//
// REQUIRES: Each value in elem.Value must match the VR, see Element.Value.
func WriteDataElement(e *dicomio.Encoder, elem *Element) {
	vr := elem.VR
	if vr == "" {
		if entry, err := FindTag(elem.Tag); err == nil {
			vr = entry.VR
		} else {
			vr = "UN"
		}
	}
	if elem.Tag == TagPixelData && elem.UndefinedLength {
		e.SetError(fmt.Errorf("encoding undefined-length %s not supported", TagString(elem.Tag)))
		return
	}
	sube := dicomio.NewSubEncoder(e)
	encodeValues(sube, elem.Tag, vr, elem.Value)
	bytes, err := sube.Finish()
	if err != nil {
		e.SetError(err)
		return
	}
	doassert(len(bytes)%2 == 0)
	e.WriteUInt16(elem.Tag.Group)
	e.WriteUInt16(elem.Tag.Element)
	_, implicit := e.TransferSyntax()
	// Items are always encoded implicit. PS3.5 7.5
	if elem.Tag.Group == itemSeqGroup {
		implicit = dicomio.ImplicitVR
	}
	if implicit == dicomio.ExplicitVR {
		doassert(len(vr) == 2)
		e.WriteString(vr)
		switch vr {
		case "NA", "OB", "OD", "OF", "OL", "OW", "SQ", "UN", "UC", "UR", "UT":
			e.WriteZeros(2) // two bytes for "future use" (0000H)
			e.WriteUInt32(uint32(len(bytes)))
		default:
			if len(bytes) > 0xfffe {
				e.SetError(fmt.Errorf("value of %s too long for VR %s: %d bytes", TagString(elem.Tag), vr, len(bytes)))
				return
			}
			e.WriteUInt16(uint16(len(bytes)))
		}
	} else {
		doassert(implicit == dicomio.ImplicitVR)
		e.WriteUInt32(uint32(len(bytes)))
	}
	e.WriteBytes(bytes)
}

func encodeValues(e *dicomio.Encoder, tag Tag, vr string, values []interface{}) {
	wrongType := func(v interface{}) {
		e.SetError(fmt.Errorf("%s: wrong payload type for VR %s: %T", TagString(tag), vr, v))
	}
	switch GetVRKind(tag, vr) {
	case VRSequence, VRItem:
		for _, v := range values {
			child, ok := v.(*Element)
			if !ok {
				wrongType(v)
				return
			}
			WriteDataElement(e, child)
		}
	case VRBytes, VRPixelData:
		for _, v := range values {
			b, ok := v.([]byte)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteBytes(b)
			if len(b)%2 == 1 {
				e.WriteUInt8(0)
			}
		}
	case VRTag:
		for _, v := range values {
			t, ok := v.(Tag)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteUInt16(t.Group)
			e.WriteUInt16(t.Element)
		}
	case VRUInt16:
		for _, v := range values {
			n, ok := v.(uint16)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteUInt16(n)
		}
	case VRUInt32:
		for _, v := range values {
			n, ok := v.(uint32)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteUInt32(n)
		}
	case VRInt16:
		for _, v := range values {
			n, ok := v.(int16)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteInt16(n)
		}
	case VRInt32:
		for _, v := range values {
			n, ok := v.(int32)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteInt32(n)
		}
	case VRFloat32:
		for _, v := range values {
			f, ok := v.(float32)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteFloat32(f)
		}
	case VRFloat64:
		for _, v := range values {
			f, ok := v.(float64)
			if !ok {
				wrongType(v)
				return
			}
			e.WriteFloat64(f)
		}
	default:
		// VRString and VRText. Multiple values are joined with '\\'.
		strs := make([]string, len(values))
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				wrongType(v)
				return
			}
			strs[i] = s
		}
		b := e.EncodeStringWithCodingSystem(strings.Join(strs, "\\"))
		e.WriteBytes(b)
		if len(b)%2 == 1 {
			if vr == "UI" {
				e.WriteUInt8(0)
			} else {
				e.WriteString(" ")
			}
		}
	}
}

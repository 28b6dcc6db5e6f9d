package dicom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"v.io/x/lib/vlog"

	"github.com/fquilmes/coma2punto/dicom/dicomio"
)

const (
	itemSeqGroup = 0xFFFE
	magicWord    = "DICM"
)

// UndefinedLength is the in-memory value of a 0xffffffff Value Length.
const UndefinedLength uint32 = 0xfffffffe // must be even.

// ReadOptions defines how DataSets and Elements are parsed.
type ReadOptions struct {
	// DropPixelData causes the PixelData element to be parsed but not kept
	// in the DataSet.
	DropPixelData bool
}

// ReadDataSetInBytes is shorthand for ReadDataSet(bytes.NewBuffer(data), len(data)).
func ReadDataSetInBytes(data []byte, options ReadOptions) (*DataSet, error) {
	return ReadDataSet(bytes.NewBuffer(data), int64(len(data)), options)
}

// ReadDataSetFromFile parses the file at "path".
func ReadDataSetFromFile(path string, options ReadOptions) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	st, err := file.Stat()
	if err != nil {
		return nil, err
	}
	ds, err := ReadDataSet(file, st.Size(), options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadDataSet reads up to "bytes" bytes from "in" as a DICOM file. On any
// parse failure it returns a nil DataSet and an error wrapping ErrBrokenFile.
func ReadDataSet(in io.Reader, bytes int64, options ReadOptions) (*DataSet, error) {
	buffer := dicomio.NewDecoder(in, bytes, binary.LittleEndian, dicomio.ExplicitVR)
	metaElems := ParseFileHeader(buffer)
	if buffer.Error() != nil {
		return nil, brokenFile(buffer.Error())
	}
	file := &DataSet{Elements: metaElems}

	// Change the transfer syntax for the rest of the file.
	transferSyntaxUID, err := file.TransferSyntaxUID()
	if err != nil {
		return nil, brokenFile(err)
	}
	endian, implicit, err := dicomio.ParseTransferSyntaxUID(transferSyntaxUID)
	if err != nil {
		return nil, brokenFile(err)
	}
	buffer.PushTransferSyntax(endian, implicit)
	defer buffer.PopTransferSyntax()

	// Now read the list of elements.
	for buffer.Len() > 0 {
		elem := ReadDataElement(buffer)
		if buffer.Error() != nil {
			break
		}
		if elem.Tag == TagSpecificCharacterSet {
			// Set the []byte -> string decoder for the rest of the
			// file.  It's sad that SpecificCharacterSet isn't part
			// of metadata, but is part of regular attrs, so we need
			// to watch out for multiple occurrences of this type of
			// elements.
			cs, err := parseSpecificCharacterSet(elem)
			if err != nil {
				buffer.SetError(err)
				break
			}
			buffer.SetCodingSystem(cs)
		}
		if options.DropPixelData && elem.Tag == TagPixelData {
			continue
		}
		file.Elements = append(file.Elements, elem)
	}
	if err := buffer.Finish(); err != nil {
		return nil, brokenFile(err)
	}
	return file, nil
}

func brokenFile(err error) error {
	if errors.Is(err, ErrBrokenFile) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBrokenFile, err)
}

// ParseFileHeader consumes the DICOM magic header and metadata elements (whose
// elements with tag group==2) from a Dicom file. Errors are reported through
// d.Error().
func ParseFileHeader(d *dicomio.Decoder) []*Element {
	d.PushTransferSyntax(binary.LittleEndian, dicomio.ExplicitVR)
	defer d.PopTransferSyntax()
	d.Skip(128) // skip preamble

	// check for magic word
	if s := d.ReadString(4); s != magicWord {
		d.SetError(fmt.Errorf("%w: keyword 'DICM' not found in the header", ErrBrokenFile))
		return nil
	}

	// (0002,0000) MetaElementGroupLength
	metaElem := ReadDataElement(d)
	if d.Error() != nil {
		return nil
	}
	if metaElem.Tag != TagMetaElementGroupLength {
		d.SetError(fmt.Errorf("%w: MetaElementGroupLength not found; instead found %s", ErrBrokenFile, metaElem.Tag.String()))
		return nil
	}
	metaLength, err := metaElem.GetUInt32()
	if err != nil {
		d.SetError(fmt.Errorf("failed to read uint32 in MetaElementGroupLength: %v", err))
		return nil
	}
	if d.Len() <= 0 {
		d.SetError(fmt.Errorf("%w: no data element found", ErrBrokenFile))
		return nil
	}
	metaElems := []*Element{metaElem}

	// Read meta tags
	d.PushLimit(int64(metaLength))
	defer d.PopLimit()
	for d.Len() > 0 {
		elem := ReadDataElement(d)
		if d.Error() != nil {
			break
		}
		metaElems = append(metaElems, elem)
	}
	return metaElems
}

// Read an Item object as raw bytes, w/o parsing them into DataElement. Used to
// parse pixel data.
func readRawItem(d *dicomio.Decoder) ([]byte, bool) {
	tag := readTag(d)
	// Item is always encoded implicit. PS3.6 7.5
	vr, vl := readImplicit(d, tag)
	if d.Error() != nil {
		return nil, true
	}
	if tag == tagSequenceDelimitationItem {
		if vl != 0 {
			d.SetError(fmt.Errorf("SequenceDelimitationItem's VL != 0: %v", vl))
		}
		return nil, true
	}
	if tag != TagItem {
		d.SetError(fmt.Errorf("expect item in pixeldata but found %v", tag))
		return nil, false
	}
	if vl == UndefinedLength {
		d.SetError(fmt.Errorf("expect defined-length item in pixeldata"))
		return nil, false
	}
	if vr != "NA" {
		d.SetError(fmt.Errorf("expect NA item, but found %s", vr))
		return nil, true
	}
	return d.ReadBytes(int(vl)), false
}

// Read the basic offset table. This is the first Item object embedded inside
// PixelData element. P3.5 8.2. P3.5, A4 has a better example.
func readBasicOffsetTable(d *dicomio.Decoder) []uint32 {
	data, endOfData := readRawItem(d)
	if endOfData {
		d.SetError(fmt.Errorf("basic offset table not found"))
	}
	if len(data) == 0 {
		return []uint32{0}
	}

	byteOrder, _ := d.TransferSyntax()
	// The payload of the item is sequence of uint32s, each representing the
	// byte size of an image that follows.
	subdecoder := dicomio.NewBytesDecoder(data, byteOrder, dicomio.ImplicitVR)
	var offsets []uint32
	for subdecoder.Len() > 0 && subdecoder.Error() == nil {
		offsets = append(offsets, subdecoder.ReadUInt32())
	}
	return offsets
}

// ReadDataElement reads a DICOM data element. Errors are reported through
// d.Error(). The caller must check d.Error() before using the returned value.
func ReadDataElement(d *dicomio.Decoder) *Element {
	tag := readTag(d)
	// The elements for group 0xFFFE should be Encoded as Implicit VR.
	// DICOM Standard 09. PS 3.6 - Section 7.5: "Nesting of Data Sets"
	_, implicit := d.TransferSyntax()
	if tag.Group == itemSeqGroup {
		implicit = dicomio.ImplicitVR
	}
	var vr string     // Value Representation
	var vl uint32 = 0 // Value Length
	if implicit == dicomio.ImplicitVR {
		vr, vl = readImplicit(d, tag)
	} else {
		doassert(implicit == dicomio.ExplicitVR)
		vr, vl = readExplicit(d, tag)
	}
	if d.Error() != nil {
		return nil
	}
	vlog.VI(2).Infof("ReadDataElement: tag %s vr %s vl %d", tag, vr, vl)
	if vr == "OX" {
		vr = "OW"
	}
	// An unknown element of undefined length can only be a sequence. With
	// explicit VR its items are encoded as implicit VR little endian.
	// P3.5 6.2.2.
	nestedImplicit := false
	if vr == "UN" && vl == UndefinedLength {
		vr = "SQ"
		nestedImplicit = implicit == dicomio.ExplicitVR
	}
	elem := &Element{
		Tag:             tag,
		VR:              vr,
		UndefinedLength: vl == UndefinedLength,
	}
	var data []interface{}

	switch GetVRKind(tag, vr) {
	case VRPixelData:
		data = readPixelData(d, tag, vr, vl)
	case VRSequence:
		if nestedImplicit {
			d.PushTransferSyntax(binary.LittleEndian, dicomio.ImplicitVR)
			defer d.PopTransferSyntax()
		}
		data = readSequence(d, vl)
	case VRItem:
		data = readItem(d, vl)
	default:
		if vl == UndefinedLength {
			d.SetError(fmt.Errorf("undefined length disallowed for VR=%s, tag %s", vr, TagString(tag)))
			return nil
		}
		data = readScalars(d, tag, vr, vl)
	}
	if d.Error() != nil {
		return nil
	}
	elem.Value = data
	return elem
}

func readPixelData(d *dicomio.Decoder, tag Tag, vr string, vl uint32) []interface{} {
	// P3.5, A.4 describes the format. Currently we only support an encapsulated image format.
	//
	// PixelData is usually the last element in a DICOM file. When
	// the file stores N images, the elements that follow PixelData
	// are laid out in the following way:
	//
	// Item(BasicOffsetTable) Item(ImageData0) ... Item(ImageDataM) SequenceDelimiterItem
	//
	// Item(BasicOffsetTable) is an Item element whose payload
	// encodes N uint32 values. Kth uint32 is the bytesize of the
	// Kth image. Item(ImageData*) are chunked sequences of bytes.
	if vl != UndefinedLength {
		return []interface{}{d.ReadBytes(int(vl))}
	}
	offsets := readBasicOffsetTable(d)
	if len(offsets) > 1 {
		vlog.Errorf("Warning: multiple images not supported yet. Combining them into a byte sequence: %v", offsets)
	}
	var bytes []byte
	for d.Len() > 0 {
		chunk, endOfItems := readRawItem(d)
		if d.Error() != nil {
			break
		}
		if endOfItems {
			break
		}
		bytes = append(bytes, chunk...)
	}
	return []interface{}{bytes}
}

func readSequence(d *dicomio.Decoder, vl uint32) []interface{} {
	var data []interface{}
	if vl == UndefinedLength {
		// Format:
		//  Sequence := ItemSet* SequenceDelimitationItem
		//  ItemSet := Item Any* ItemDelimitationItem (when Item.VL is undefined) or
		//             Item Any*N                     (when Item.VL has a defined value)
		for {
			item := ReadDataElement(d)
			if d.Error() != nil {
				break
			}
			if item.Tag == tagSequenceDelimitationItem {
				break
			}
			if item.Tag != TagItem {
				d.SetError(fmt.Errorf("found non-Item element in seq w/ undefined length: %v", TagString(item.Tag)))
				break
			}
			data = append(data, item)
		}
		return data
	}
	// Format:
	//  Sequence := ItemSet*VL
	// See the above comment for the definition of ItemSet.
	d.PushLimit(int64(vl))
	defer d.PopLimit()
	for d.Len() > 0 {
		item := ReadDataElement(d)
		if d.Error() != nil {
			break
		}
		if item.Tag != TagItem {
			d.SetError(fmt.Errorf("found non-Item element in seq w/ defined length: %v", TagString(item.Tag)))
			break
		}
		data = append(data, item)
	}
	return data
}

func readItem(d *dicomio.Decoder, vl uint32) []interface{} {
	var data []interface{}
	if vl == UndefinedLength {
		// Format: Item Any* ItemDelimitationItem
		for {
			subelem := ReadDataElement(d)
			if d.Error() != nil {
				break
			}
			if subelem.Tag == tagItemDelimitationItem {
				break
			}
			data = append(data, subelem)
		}
		return data
	}
	// Sequence of arbitary elements, for the  total of "vl" bytes.
	d.PushLimit(int64(vl))
	defer d.PopLimit()
	for d.Len() > 0 {
		subelem := ReadDataElement(d)
		if d.Error() != nil {
			break
		}
		data = append(data, subelem)
	}
	return data
}

func readScalars(d *dicomio.Decoder, tag Tag, vr string, vl uint32) []interface{} {
	var data []interface{}
	d.PushLimit(int64(vl))
	defer d.PopLimit()
	switch GetVRKind(tag, vr) {
	case VRTag:
		// (2byte group, 2byte elem)
		for d.Len() > 0 && d.Error() == nil {
			tag := Tag{d.ReadUInt16(), d.ReadUInt16()}
			data = append(data, tag)
		}
	case VRBytes:
		data = append(data, d.ReadBytes(int(vl)))
	case VRUInt32:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadUInt32())
		}
	case VRInt32:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadInt32())
		}
	case VRUInt16:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadUInt16())
		}
	case VRInt16:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadInt16())
		}
	case VRFloat32:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadFloat32())
		}
	case VRFloat64:
		for d.Len() > 0 && d.Error() == nil {
			data = append(data, d.ReadFloat64())
		}
	case VRText:
		v := d.ReadStringWithCodingSystem(dicomio.IdeographicCodingSystem, int(vl))
		data = append(data, strings.TrimRight(v, " \000"))
	default:
		if vr == "DA" && vl == 10 {
			// 10-byte ACR-NEMA300 string of form "1993.08.22". It is
			// not compliant according to P3.5 6.2, but it still
			// happens in real life.
			data = append(data, d.ReadString(10))
			break
		}
		csType := dicomio.IdeographicCodingSystem
		if vr == "PN" {
			csType = dicomio.AlphabeticCodingSystem
		}
		// List of strings, each delimited by '\\'.
		v := d.ReadStringWithCodingSystem(csType, int(vl))
		// String may have '\0' suffix if its length is odd.
		str := strings.Trim(v, " \000")
		if len(str) > 0 {
			for _, s := range strings.Split(str, "\\") {
				data = append(data, strings.TrimRight(s, " "))
			}
		}
	}
	return data
}

// Read a DICOM data element's tag value
// ie. (0002,0000)
// added  Value Multiplicity PS 3.5 6.4
func readTag(buffer *dicomio.Decoder) Tag {
	group := buffer.ReadUInt16()   // group
	element := buffer.ReadUInt16() // element
	return Tag{group, element}
}

// Read the VR from the DICOM ditionary
// The VL is a 32-bit unsigned integer
func readImplicit(buffer *dicomio.Decoder, tag Tag) (string, uint32) {
	vr := "UN"
	if entry, err := FindTag(tag); err == nil {
		vr = entry.VR
	}

	vl := buffer.ReadUInt32()
	// Rectify Undefined Length VL
	if vl == 0xffffffff {
		vl = UndefinedLength
	}
	// Error when encountering odd length
	if vl != UndefinedLength && vl%2 != 0 {
		buffer.SetError(fmt.Errorf("%w (vl=%v) when reading implicit VR '%v' for tag %s", ErrOddLength, vl, vr, TagString(tag)))
	}
	return vr, vl
}

// The VR is represented by the next two consecutive bytes
// The VL depends on the VR value
func readExplicit(buffer *dicomio.Decoder, tag Tag) (string, uint32) {
	vr := buffer.ReadString(2)
	if buffer.Error() != nil {
		return "", 0
	}
	if !validVR(vr) {
		buffer.SetError(fmt.Errorf("%w: invalid VR %q for tag %s", ErrBrokenFile, vr, TagString(tag)))
		return "", 0
	}

	var vl uint32
	// long value representations
	switch vr {
	case "NA", "OB", "OD", "OF", "OL", "OW", "SQ", "UN", "UC", "UR", "UT":
		buffer.Skip(2) // ignore two bytes for "future use" (0000H)
		vl = buffer.ReadUInt32()
		// Rectify Undefined Length VL
		if vl == 0xffffffff {
			switch vr {
			case "UC", "UR", "UT":
				buffer.SetError(ErrUndefLengthNotAllowed)
			default:
				vl = UndefinedLength
			}
		}
	default:
		vl = uint32(buffer.ReadUInt16())
		// Rectify Undefined Length VL
		if vl == 0xffff {
			vl = UndefinedLength
		}
	}
	// Error when encountering odd length
	if vl != UndefinedLength && vl%2 != 0 {
		buffer.SetError(fmt.Errorf("%w (vl=%v) when reading explicit VR %v for tag %s", ErrOddLength, vl, vr, TagString(tag)))
	}
	return vr, vl
}

func validVR(vr string) bool {
	return len(vr) == 2 &&
		vr[0] >= 'A' && vr[0] <= 'Z' &&
		vr[1] >= 'A' && vr[1] <= 'Z'
}

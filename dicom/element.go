package dicom

import (
	"fmt"
	"sort"
	"strings"
)

// Element is a single DICOM data element.
type Element struct {
	// Tag is a pair of <group, element>. See dictionary.go for possible values.
	Tag Tag

	// VR defines the encoding of Value[] in two-letter alphabets, e.g.,
	// "AE", "UL". See P3.5 6.2.
	//
	// In a conformant DICOM file, the VR value of an element is determined
	// by its Tag, so this field is redundant.  Still, a non-conformant file
	// with with explicitVR encoding may have an element with VR that's
	// different from the standard's. In such case, this library honors the
	// VR value found in the file, and this field stores the VR used for
	// parsing Values[].
	VR string

	// UndefinedLength is true if, in the DICOM file, the element is encoded
	// as having undefined length. The writer always emits defined lengths.
	UndefinedLength bool

	// List of values in the element. Their types depends on VR:
	//
	// If VR=="SQ", Value[i] is a *Element, with Tag=TagItem.
	// If VR=="NA" (i.e., Tag=TagItem), each Value[i] is a *Element.
	//    a value's Tag can be any (including TagItem, which represents a nested Item)
	// If VR=="OW", "OB", "UN", "OD", "OF" or "OL", then len(Value)==1, and Value[0] is []byte.
	// If VR=="LT", "ST", "UT" or "UR", then len(Value)==1, and Value[0] is string.
	// If VR=="AT", then Value[] is a list of Tags.
	// If VR=="US", Value[] is a list of uint16s
	// If VR=="UL", Value[] is a list of uint32s
	// If VR=="SS", Value[] is a list of int16s
	// If VR=="SL", Value[] is a list of int32s
	// If VR=="FL", Value[] is a list of float32s
	// If VR=="FD", Value[] is a list of float64s
	// Else, Value[] is a list of strings.
	Value []interface{} // Value Multiplicity PS 3.5 6.4
}

// NewElement creates a new Element with the given tag and values. The VR is
// taken from the dictionary. Each value must be of the type required by the
// VR, see Element.Value.
func NewElement(tag Tag, values ...interface{}) (*Element, error) {
	ti, err := FindTag(tag)
	if err != nil {
		return nil, err
	}
	e := &Element{
		Tag:   tag,
		VR:    ti.VR,
		Value: make([]interface{}, len(values)),
	}
	kind := GetVRKind(tag, ti.VR)
	for i, v := range values {
		var ok bool
		switch kind {
		case VRString, VRText:
			_, ok = v.(string)
		case VRBytes, VRPixelData:
			_, ok = v.([]byte)
		case VRUInt16:
			_, ok = v.(uint16)
		case VRUInt32:
			_, ok = v.(uint32)
		case VRInt16:
			_, ok = v.(int16)
		case VRInt32:
			_, ok = v.(int32)
		case VRFloat32:
			_, ok = v.(float32)
		case VRFloat64:
			_, ok = v.(float64)
		case VRTag:
			_, ok = v.(Tag)
		case VRSequence, VRItem:
			var item *Element
			item, ok = v.(*Element)
			if ok && kind == VRSequence && item.Tag != TagItem {
				return nil, fmt.Errorf("sequence %s: value %d is not an Item: %v", TagString(tag), i, item.Tag)
			}
		}
		if !ok {
			return nil, fmt.Errorf("%v: wrong payload type for NewElement: expect %v, but found %v", TagString(tag), kind, v)
		}
		e.Value[i] = v
	}
	return e, nil
}

// MustNewElement is similar to NewElement, but panics on error.
func MustNewElement(tag Tag, values ...interface{}) *Element {
	elem, err := NewElement(tag, values...)
	if err != nil {
		panic(err)
	}
	return elem
}

// NewItem creates an Item element holding the given children, sorted by tag.
func NewItem(children ...*Element) *Element {
	item := &Element{Tag: TagItem, VR: "NA"}
	for _, c := range children {
		item.SetChild(c)
	}
	return item
}

// GetUInt32 gets a uint32 value from an element.  It returns an error if the
// element contains zero or >1 values, or the value is not a uint32.
func (e *Element) GetUInt32() (uint32, error) {
	if len(e.Value) != 1 {
		return 0, fmt.Errorf("found %d value(s) in getuint32 (expect 1): %v", len(e.Value), e)
	}
	v, ok := e.Value[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("uint32 value not found in %v", e)
	}
	return v, nil
}

// GetUInt16 gets a uint16 value from an element.  It returns an error if the
// element contains zero or >1 values, or the value is not a uint16.
func (e *Element) GetUInt16() (uint16, error) {
	if len(e.Value) != 1 {
		return 0, fmt.Errorf("found %d value(s) in getuint16 (expect 1): %v", len(e.Value), e)
	}
	v, ok := e.Value[0].(uint16)
	if !ok {
		return 0, fmt.Errorf("uint16 value not found in %v", e)
	}
	return v, nil
}

// GetString gets a string value from an element.  It returns an error if the
// element contains zero or >1 values, or the value is not a string.
func (e *Element) GetString() (string, error) {
	if len(e.Value) != 1 {
		return "", fmt.Errorf("found %d value(s) in getstring (expect 1): %v", len(e.Value), e.String())
	}
	v, ok := e.Value[0].(string)
	if !ok {
		return "", fmt.Errorf("string value not found in %v", e)
	}
	return v, nil
}

// MustGetString is similar to GetString, but panics on error.
func (e *Element) MustGetString() string {
	v, err := e.GetString()
	if err != nil {
		panic(err)
	}
	return v
}

// GetStrings gets the element value as list of strings. Returns an error if
// the value is of any other type.
func (e *Element) GetStrings() ([]string, error) {
	var values []string
	for _, v := range e.Value {
		v, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("string value not found in %v", e.String())
		}
		values = append(values, v)
	}
	return values, nil
}

// Items returns the Items of a sequence element. Values that are not Items
// are skipped.
func (e *Element) Items() []*Element {
	return elementValues(e)
}

// Children returns the elements nested in an Item.
func (e *Element) Children() []*Element {
	return elementValues(e)
}

func elementValues(e *Element) []*Element {
	elems := make([]*Element, 0, len(e.Value))
	for _, v := range e.Value {
		if child, ok := v.(*Element); ok {
			elems = append(elems, child)
		}
	}
	return elems
}

// FindChild returns the element with the given tag nested in an Item.
func (e *Element) FindChild(tag Tag) (*Element, bool) {
	for _, v := range e.Value {
		if child, ok := v.(*Element); ok && child.Tag == tag {
			return child, true
		}
	}
	return nil, false
}

// SetChild replaces the child of an Item that has the same tag as "child",
// or inserts it so that the children stay in ascending tag order.
func (e *Element) SetChild(child *Element) {
	i := sort.Search(len(e.Value), func(i int) bool {
		c, ok := e.Value[i].(*Element)
		return ok && c.Tag.Compare(child.Tag) >= 0
	})
	if i < len(e.Value) {
		if c, ok := e.Value[i].(*Element); ok && c.Tag == child.Tag {
			e.Value[i] = child
			return
		}
	}
	e.Value = append(e.Value, nil)
	copy(e.Value[i+1:], e.Value[i:])
	e.Value[i] = child
}

func elementString(e *Element, nestLevel int) string {
	s := strings.Repeat(" ", nestLevel)
	sVl := ""
	if e.UndefinedLength {
		sVl = "UNDEF"
	}
	s = fmt.Sprintf("%s %s %s %s ", s, TagString(e.Tag), e.VR, sVl)
	if e.VR != "SQ" && e.VR != "NA" {
		sv := fmt.Sprintf("%v", e.Value)
		if len(sv) > 50 {
			sv = sv[1:50] + "(...)"
		}
		s += sv + "\n"
	} else {
		s += " seq:\n"
		for _, v := range e.Value {
			if item, ok := v.(*Element); ok {
				s += elementString(item, nestLevel+1)
			}
		}
	}
	return s
}

// String returns a multi-line dump of the element and its nested items.
func (e *Element) String() string {
	return elementString(e, 0)
}

// Package dicom reads and writes DICOM files (PS3.10) as ordered lists of
// data elements. Example:
//
//	ds, err := dicom.ReadDataSetFromFile("plan.dcm", dicom.ReadOptions{})
//	if err != nil {
//		return err
//	}
//	for _, elem := range ds.Elements {
//		fmt.Println(elem)
//	}
package dicom

import (
	"errors"
	"fmt"
	"sort"
)

// UID prefix provided by https://www.medicalconnections.co.uk/Free_UID
const DefaultImplementationClassUIDPrefix = "1.2.826.0.1.3680043.9.7133"

var DefaultImplementationClassUID = DefaultImplementationClassUIDPrefix + ".1.1"

const DefaultImplementationVersionName = "COMA2PUNTO_1"

// Errors
var (
	ErrBrokenFile            = errors.New("invalid DICOM file")
	ErrTagNotFound           = errors.New("could not find tag in dicom dictionary")
	ErrElementNotFound       = errors.New("element not found in data set")
	ErrOddLength             = errors.New("encountered odd length Value Length")
	ErrUndefLengthNotAllowed = errors.New("UC, UR and UT may not have an Undefined Length, i.e.,a Value Length of FFFFFFFFH")
)

// DataSet represents contents of one DICOM file.
type DataSet struct {
	// Elements in the file, in order of appearance.
	//
	// Note: unlike pydicom, Elements also contains meta elements (those
	// with Tag.Group==2).
	Elements []*Element
}

// FindElementByTag finds an element with the given Element.Tag in
// "ds". If not found, returns an error wrapping ErrElementNotFound.
func (ds *DataSet) FindElementByTag(tag Tag) (*Element, error) {
	if elem, ok := ds.LookupElementByTag(tag); ok {
		return elem, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrElementNotFound, TagString(tag))
}

// FindElementByName finds an element with the given dictionary name, e.g.
// "BeamSequence". If not found, returns an error.
func (ds *DataSet) FindElementByName(name string) (*Element, error) {
	t, err := FindTagByName(name)
	if err != nil {
		return nil, err
	}
	return ds.FindElementByTag(t.Tag)
}

// LookupElementByTag reports the element with the given tag and whether it
// is present.
func (ds *DataSet) LookupElementByTag(tag Tag) (*Element, bool) {
	for _, elem := range ds.Elements {
		if elem.Tag == tag {
			return elem, true
		}
	}
	return nil, false
}

// SetElement replaces the top-level element with the same tag, or inserts
// it keeping ascending tag order.
func (ds *DataSet) SetElement(elem *Element) {
	i := sort.Search(len(ds.Elements), func(i int) bool {
		return ds.Elements[i].Tag.Compare(elem.Tag) >= 0
	})
	if i < len(ds.Elements) && ds.Elements[i].Tag == elem.Tag {
		ds.Elements[i] = elem
		return
	}
	ds.Elements = append(ds.Elements, nil)
	copy(ds.Elements[i+1:], ds.Elements[i:])
	ds.Elements[i] = elem
}

// TransferSyntaxUID returns the transfer syntax declared in the meta
// information of ds.
func (ds *DataSet) TransferSyntaxUID() (string, error) {
	elem, err := ds.FindElementByTag(TagTransferSyntaxUID)
	if err != nil {
		return "", err
	}
	return elem.GetString()
}

func doassert(x bool) {
	if !x {
		panic("doassert")
	}
}

// Package rtplan exposes the sequences of an RT Plan data set and the QA
// edits applied to it.
package rtplan

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fquilmes/coma2punto/dicom"
)

// SetupDeliveryType is the TreatmentDeliveryType of beams used only for
// patient positioning.
const SetupDeliveryType = "SETUP"

// ErrMissingField is wrapped by every MissingFieldError.
var ErrMissingField = errors.New("field missing from plan")

// MissingFieldError reports that a plan lacks a required element.
type MissingFieldError struct {
	Tag dicom.Tag
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingField, dicom.TagString(e.Tag))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// LookupSequence returns the items of the top-level sequence with the given
// tag and whether the sequence is present.
func LookupSequence(ds *dicom.DataSet, tag dicom.Tag) ([]*dicom.Element, bool) {
	elem, ok := ds.LookupElementByTag(tag)
	if !ok || elem.VR != "SQ" {
		return nil, false
	}
	return elem.Items(), true
}

func sequence(ds *dicom.DataSet, tag dicom.Tag) ([]*dicom.Element, error) {
	items, ok := LookupSequence(ds, tag)
	if !ok {
		return nil, &MissingFieldError{Tag: tag}
	}
	return items, nil
}

// DoseReferences returns the items of DoseReferenceSequence.
func DoseReferences(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagDoseReferenceSequence)
}

// ToleranceTables returns the items of ToleranceTableSequence.
func ToleranceTables(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagToleranceTableSequence)
}

// FractionGroups returns the items of FractionGroupSequence.
func FractionGroups(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagFractionGroupSequence)
}

// Beams returns the items of BeamSequence.
func Beams(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagBeamSequence)
}

// PatientSetups returns the items of PatientSetupSequence.
func PatientSetups(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagPatientSetupSequence)
}

// ReferencedStructureSets returns the items of
// ReferencedStructureSetSequence.
func ReferencedStructureSets(ds *dicom.DataSet) ([]*dicom.Element, error) {
	return sequence(ds, dicom.TagReferencedStructureSetSequence)
}

// BeamCount returns the number of treatment beams, i.e. beams whose
// TreatmentDeliveryType is not exactly "SETUP". Beams without a delivery
// type are counted.
func BeamCount(ds *dicom.DataSet) (int, error) {
	beams, err := Beams(ds)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, beam := range beams {
		if deliveryType(beam) != SetupDeliveryType {
			n++
		}
	}
	return n, nil
}

func deliveryType(beam *dicom.Element) string {
	elem, ok := beam.FindChild(dicom.TagTreatmentDeliveryType)
	if !ok {
		return ""
	}
	v, err := elem.GetString()
	if err != nil {
		return ""
	}
	return v
}

// GetString returns the single string value of a top-level element.
func GetString(ds *dicom.DataSet, tag dicom.Tag) (string, error) {
	elem, ok := ds.LookupElementByTag(tag)
	if !ok {
		return "", &MissingFieldError{Tag: tag}
	}
	return elem.GetString()
}

// SetString sets a top-level string element, creating it if needed.
func SetString(ds *dicom.DataSet, tag dicom.Tag, value string) error {
	elem, err := dicom.NewElement(tag, value)
	if err != nil {
		return err
	}
	ds.SetElement(elem)
	return nil
}

func formatDS(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

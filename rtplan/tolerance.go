package rtplan

import (
	"strconv"

	"github.com/fquilmes/coma2punto/dicom"
)

// QAToleranceProfile is the tolerance table written by
// ApplyQAToleranceProfile. Angles are in degrees, positions in mm.
var QAToleranceProfile = ToleranceTable{
	Number:                       3,
	Label:                        "T_QA",
	GantryAngle:                  180,
	BeamLimitingDeviceAngle:      90,
	PatientSupportAngle:          90,
	TableTopVerticalPosition:     2000,
	TableTopLongitudinalPosition: 2000,
	TableTopLateralPosition:      200,
}

// ToleranceTable holds the fields of one ToleranceTableSequence item.
type ToleranceTable struct {
	Number                       int
	Label                        string
	GantryAngle                  float64
	BeamLimitingDeviceAngle      float64
	PatientSupportAngle          float64
	TableTopVerticalPosition     float64
	TableTopLongitudinalPosition float64
	TableTopLateralPosition      float64
}

// apply overwrites the fields of a ToleranceTableSequence item.
func (tt ToleranceTable) apply(item *dicom.Element) error {
	elems := []struct {
		tag   dicom.Tag
		value string
	}{
		{dicom.TagToleranceTableNumber, strconv.Itoa(tt.Number)},
		{dicom.TagToleranceTableLabel, tt.Label},
		{dicom.TagGantryAngleTolerance, formatDS(tt.GantryAngle)},
		{dicom.TagBeamLimitingDeviceAngleTolerance, formatDS(tt.BeamLimitingDeviceAngle)},
		{dicom.TagPatientSupportAngleTolerance, formatDS(tt.PatientSupportAngle)},
		{dicom.TagTableTopVerticalPositionTolerance, formatDS(tt.TableTopVerticalPosition)},
		{dicom.TagTableTopLongitudinalPositionTolerance, formatDS(tt.TableTopLongitudinalPosition)},
		{dicom.TagTableTopLateralPositionTolerance, formatDS(tt.TableTopLateralPosition)},
	}
	for _, e := range elems {
		elem, err := dicom.NewElement(e.tag, e.value)
		if err != nil {
			return err
		}
		item.SetChild(elem)
	}
	return nil
}

// ApplyQAToleranceProfile overwrites the first tolerance table with
// QAToleranceProfile and points every beam at it. A plan without
// ToleranceTableSequence only gets the beam references. The data set is
// modified in place.
func ApplyQAToleranceProfile(ds *dicom.DataSet) error {
	beams, err := Beams(ds)
	if err != nil {
		return err
	}
	if tables, ok := LookupSequence(ds, dicom.TagToleranceTableSequence); ok && len(tables) > 0 {
		if err := QAToleranceProfile.apply(tables[0]); err != nil {
			return err
		}
	}
	ref := strconv.Itoa(QAToleranceProfile.Number)
	for _, beam := range beams {
		elem, err := dicom.NewElement(dicom.TagReferencedToleranceTableNumber, ref)
		if err != nil {
			return err
		}
		beam.SetChild(elem)
	}
	return nil
}

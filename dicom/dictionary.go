package dicom

import (
	"sync"
)

// Tags used by this package and by rtplan. The full data dictionary is
// not embedded; elements with unknown tags are kept with VR "UN" when the
// transfer syntax is implicit.
var (
	TagMetaElementGroupLength     = Tag{0x0002, 0x0000}
	TagFileMetaInformationVersion = Tag{0x0002, 0x0001}
	TagMediaStorageSOPClassUID    = Tag{0x0002, 0x0002}
	TagMediaStorageSOPInstanceUID = Tag{0x0002, 0x0003}
	TagTransferSyntaxUID          = Tag{0x0002, 0x0010}
	TagImplementationClassUID     = Tag{0x0002, 0x0012}
	TagImplementationVersionName  = Tag{0x0002, 0x0013}
	TagSourceApplicationEntity    = Tag{0x0002, 0x0016}

	TagSpecificCharacterSet = Tag{0x0008, 0x0005}
	TagInstanceCreationDate = Tag{0x0008, 0x0012}
	TagInstanceCreationTime = Tag{0x0008, 0x0013}
	TagSOPClassUID          = Tag{0x0008, 0x0016}
	TagSOPInstanceUID       = Tag{0x0008, 0x0018}
	TagStudyDate            = Tag{0x0008, 0x0020}
	TagStudyTime            = Tag{0x0008, 0x0030}
	TagModality             = Tag{0x0008, 0x0060}
	TagManufacturer         = Tag{0x0008, 0x0070}

	TagPatientName      = Tag{0x0010, 0x0010}
	TagPatientID        = Tag{0x0010, 0x0020}
	TagPatientBirthDate = Tag{0x0010, 0x0030}
	TagPatientSex       = Tag{0x0010, 0x0040}

	TagStudyInstanceUID  = Tag{0x0020, 0x000d}
	TagSeriesInstanceUID = Tag{0x0020, 0x000e}

	TagRTPlanLabel                = Tag{0x300a, 0x0002}
	TagRTPlanName                 = Tag{0x300a, 0x0003}
	TagRTPlanDate                 = Tag{0x300a, 0x0006}
	TagRTPlanTime                 = Tag{0x300a, 0x0007}
	TagRTPlanGeometry             = Tag{0x300a, 0x000c}
	TagDoseReferenceSequence      = Tag{0x300a, 0x0010}
	TagDoseReferenceNumber        = Tag{0x300a, 0x0012}
	TagDoseReferenceStructureType = Tag{0x300a, 0x0014}
	TagDoseReferenceType          = Tag{0x300a, 0x0020}
	TagTargetPrescriptionDose     = Tag{0x300a, 0x0026}

	TagToleranceTableSequence                = Tag{0x300a, 0x0040}
	TagToleranceTableNumber                  = Tag{0x300a, 0x0042}
	TagToleranceTableLabel                   = Tag{0x300a, 0x0043}
	TagGantryAngleTolerance                  = Tag{0x300a, 0x0044}
	TagBeamLimitingDeviceAngleTolerance      = Tag{0x300a, 0x0046}
	TagPatientSupportAngleTolerance          = Tag{0x300a, 0x004c}
	TagTableTopVerticalPositionTolerance     = Tag{0x300a, 0x0051}
	TagTableTopLongitudinalPositionTolerance = Tag{0x300a, 0x0052}
	TagTableTopLateralPositionTolerance      = Tag{0x300a, 0x0053}

	TagFractionGroupSequence          = Tag{0x300a, 0x0070}
	TagFractionGroupNumber            = Tag{0x300a, 0x0071}
	TagNumberOfFractionsPlanned       = Tag{0x300a, 0x0078}
	TagNumberOfBeams                  = Tag{0x300a, 0x0080}
	TagBeamSequence                   = Tag{0x300a, 0x00b0}
	TagTreatmentMachineName           = Tag{0x300a, 0x00b2}
	TagBeamNumber                     = Tag{0x300a, 0x00c0}
	TagBeamName                       = Tag{0x300a, 0x00c2}
	TagBeamType                       = Tag{0x300a, 0x00c4}
	TagRadiationType                  = Tag{0x300a, 0x00c6}
	TagTreatmentDeliveryType          = Tag{0x300a, 0x00ce}
	TagNumberOfControlPoints          = Tag{0x300a, 0x0110}
	TagPatientSetupSequence           = Tag{0x300a, 0x0180}
	TagPatientSetupNumber             = Tag{0x300a, 0x0182}
	TagPatientPosition                = Tag{0x0018, 0x5100}
	TagReferencedStructureSetSequence = Tag{0x300c, 0x0060}
	TagReferencedSOPClassUID          = Tag{0x0008, 0x1150}
	TagReferencedSOPInstanceUID       = Tag{0x0008, 0x1155}
	TagReferencedToleranceTableNumber = Tag{0x300c, 0x00a0}
	TagApprovalStatus                 = Tag{0x300e, 0x0002}

	TagPixelData = Tag{0x7fe0, 0x0010}

	// TagItem is the tag of the elements nested directly in a sequence.
	TagItem                     = Tag{0xfffe, 0xe000}
	tagItemDelimitationItem     = Tag{0xfffe, 0xe00d}
	tagSequenceDelimitationItem = Tag{0xfffe, 0xe0dd}
)

var (
	tagDictOnce   sync.Once
	tagDict       map[Tag]TagInfo
	tagDictByName map[string]TagInfo
)

// (tag, VR, name, VM)
var tagDictData = []TagInfo{
	{TagMetaElementGroupLength, "UL", "MetaElementGroupLength", "1"},
	{TagFileMetaInformationVersion, "OB", "FileMetaInformationVersion", "1"},
	{TagMediaStorageSOPClassUID, "UI", "MediaStorageSOPClassUID", "1"},
	{TagMediaStorageSOPInstanceUID, "UI", "MediaStorageSOPInstanceUID", "1"},
	{TagTransferSyntaxUID, "UI", "TransferSyntaxUID", "1"},
	{TagImplementationClassUID, "UI", "ImplementationClassUID", "1"},
	{TagImplementationVersionName, "SH", "ImplementationVersionName", "1"},
	{TagSourceApplicationEntity, "AE", "SourceApplicationEntityTitle", "1"},

	{TagSpecificCharacterSet, "CS", "SpecificCharacterSet", "1-n"},
	{TagInstanceCreationDate, "DA", "InstanceCreationDate", "1"},
	{TagInstanceCreationTime, "TM", "InstanceCreationTime", "1"},
	{TagSOPClassUID, "UI", "SOPClassUID", "1"},
	{TagSOPInstanceUID, "UI", "SOPInstanceUID", "1"},
	{TagStudyDate, "DA", "StudyDate", "1"},
	{TagStudyTime, "TM", "StudyTime", "1"},
	{TagModality, "CS", "Modality", "1"},
	{TagManufacturer, "LO", "Manufacturer", "1"},
	{TagReferencedSOPClassUID, "UI", "ReferencedSOPClassUID", "1"},
	{TagReferencedSOPInstanceUID, "UI", "ReferencedSOPInstanceUID", "1"},

	{TagPatientName, "PN", "PatientName", "1"},
	{TagPatientID, "LO", "PatientID", "1"},
	{TagPatientBirthDate, "DA", "PatientBirthDate", "1"},
	{TagPatientSex, "CS", "PatientSex", "1"},

	{TagPatientPosition, "CS", "PatientPosition", "1"},

	{TagStudyInstanceUID, "UI", "StudyInstanceUID", "1"},
	{TagSeriesInstanceUID, "UI", "SeriesInstanceUID", "1"},

	{TagRTPlanLabel, "SH", "RTPlanLabel", "1"},
	{TagRTPlanName, "LO", "RTPlanName", "1"},
	{TagRTPlanDate, "DA", "RTPlanDate", "1"},
	{TagRTPlanTime, "TM", "RTPlanTime", "1"},
	{TagRTPlanGeometry, "CS", "RTPlanGeometry", "1"},
	{TagDoseReferenceSequence, "SQ", "DoseReferenceSequence", "1"},
	{TagDoseReferenceNumber, "IS", "DoseReferenceNumber", "1"},
	{TagDoseReferenceStructureType, "CS", "DoseReferenceStructureType", "1"},
	{TagDoseReferenceType, "CS", "DoseReferenceType", "1"},
	{TagTargetPrescriptionDose, "DS", "TargetPrescriptionDose", "1"},
	{TagToleranceTableSequence, "SQ", "ToleranceTableSequence", "1"},
	{TagToleranceTableNumber, "IS", "ToleranceTableNumber", "1"},
	{TagToleranceTableLabel, "SH", "ToleranceTableLabel", "1"},
	{TagGantryAngleTolerance, "DS", "GantryAngleTolerance", "1"},
	{TagBeamLimitingDeviceAngleTolerance, "DS", "BeamLimitingDeviceAngleTolerance", "1"},
	{TagPatientSupportAngleTolerance, "DS", "PatientSupportAngleTolerance", "1"},
	{TagTableTopVerticalPositionTolerance, "DS", "TableTopVerticalPositionTolerance", "1"},
	{TagTableTopLongitudinalPositionTolerance, "DS", "TableTopLongitudinalPositionTolerance", "1"},
	{TagTableTopLateralPositionTolerance, "DS", "TableTopLateralPositionTolerance", "1"},
	{TagFractionGroupSequence, "SQ", "FractionGroupSequence", "1"},
	{TagFractionGroupNumber, "IS", "FractionGroupNumber", "1"},
	{TagNumberOfFractionsPlanned, "IS", "NumberOfFractionsPlanned", "1"},
	{TagNumberOfBeams, "IS", "NumberOfBeams", "1"},
	{TagBeamSequence, "SQ", "BeamSequence", "1"},
	{TagTreatmentMachineName, "SH", "TreatmentMachineName", "1"},
	{TagBeamNumber, "IS", "BeamNumber", "1"},
	{TagBeamName, "LO", "BeamName", "1"},
	{TagBeamType, "CS", "BeamType", "1"},
	{TagRadiationType, "CS", "RadiationType", "1"},
	{TagTreatmentDeliveryType, "CS", "TreatmentDeliveryType", "1"},
	{TagNumberOfControlPoints, "IS", "NumberOfControlPoints", "1"},
	{TagPatientSetupSequence, "SQ", "PatientSetupSequence", "1"},
	{TagPatientSetupNumber, "IS", "PatientSetupNumber", "1"},
	{TagReferencedStructureSetSequence, "SQ", "ReferencedStructureSetSequence", "1"},
	{TagReferencedToleranceTableNumber, "IS", "ReferencedToleranceTableNumber", "1"},
	{TagApprovalStatus, "CS", "ApprovalStatus", "1"},

	{TagPixelData, "OW", "PixelData", "1"},

	{TagItem, "NA", "Item", "1"},
	{tagItemDelimitationItem, "NA", "ItemDelimitationItem", "1"},
	{tagSequenceDelimitationItem, "NA", "SequenceDelimitationItem", "1"},
}

func maybeInitTagDict() {
	tagDictOnce.Do(func() {
		tagDict = make(map[Tag]TagInfo, len(tagDictData))
		tagDictByName = make(map[string]TagInfo, len(tagDictData))
		for _, ent := range tagDictData {
			tagDict[ent.Tag] = ent
			tagDictByName[ent.Name] = ent
		}
	})
}

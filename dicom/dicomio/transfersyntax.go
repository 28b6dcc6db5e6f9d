package dicomio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// https://www.dicomlibrary.com/dicom/transfer-syntax/
const (
	ImplicitVRLittleEndian         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian         = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndian            = "1.2.840.10008.1.2.2"
	DeflatedExplicitVRLittleEndian = "1.2.840.10008.1.2.1.99"
)

// Standard list of transfer syntaxes.
var StandardTransferSyntaxes = []string{
	ImplicitVRLittleEndian,
	ExplicitVRLittleEndian,
	ExplicitVRBigEndian,
	DeflatedExplicitVRLittleEndian,
}

// Prefixes of the compressed-pixel transfer syntaxes (JPEG family, RLE,
// MPEG). Their data sets are always explicit VR little endian.
var encapsulatedTransferSyntaxPrefixes = []string{
	"1.2.840.10008.1.2.4.",
	"1.2.840.10008.1.2.5",
}

// CanonicalTransferSyntaxUID returns the canonical transfer syntax UID with
// the same encoding as uid, from the list StandardTransferSyntaxes. Returns
// an error if the uid is not a known transfer syntax.
func CanonicalTransferSyntaxUID(uid string) (string, error) {
	// Some writers pad UIDs with a trailing NUL.
	uid = strings.TrimRight(uid, " \x00")
	switch uid {
	case ImplicitVRLittleEndian,
		ExplicitVRLittleEndian,
		ExplicitVRBigEndian,
		DeflatedExplicitVRLittleEndian:
		return uid, nil
	}
	for _, prefix := range encapsulatedTransferSyntaxPrefixes {
		if strings.HasPrefix(uid, prefix) {
			return ExplicitVRLittleEndian, nil
		}
	}
	return "", fmt.Errorf("UID '%s' is not a known transfer syntax", uid)
}

// ParseTransferSyntaxUID returns the encoding of a transfer syntax UID. It
// can be, e.g., 1.2.840.10008.1.2 (it will return LittleEndian, ImplicitVR)
// or 1.2.840.10008.1.2.4.54 (it will return LittleEndian, ExplicitVR).
//
// The deflated transfer syntax is reported as an error, since its data set
// is a raw deflate stream that this package does not inflate.
func ParseTransferSyntaxUID(uid string) (bo binary.ByteOrder, implicit IsImplicitVR, err error) {
	canonical, err := CanonicalTransferSyntaxUID(uid)
	if err != nil {
		return nil, UnknownVR, err
	}
	switch canonical {
	case ImplicitVRLittleEndian:
		return binary.LittleEndian, ImplicitVR, nil
	case ExplicitVRLittleEndian:
		return binary.LittleEndian, ExplicitVR, nil
	case ExplicitVRBigEndian:
		return binary.BigEndian, ExplicitVR, nil
	default:
		return nil, UnknownVR, fmt.Errorf("transfer syntax %s is not supported", canonical)
	}
}

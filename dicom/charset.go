package dicom

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"v.io/x/lib/vlog"

	"github.com/fquilmes/coma2punto/dicom/dicomio"
)

// Mapping of DICOM charset name to golang encoding/htmlindex name.  "" means
// 7bit ascii or utf-8, which need no conversion.
var htmlEncodingNames = map[string]string{
	"":                "",
	"ISO 2022 IR 6":   "",
	"ISO_IR 192":      "",
	"ISO_IR 13":       "shift_jis",
	"ISO 2022 IR 13":  "shift_jis",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 149": "euc-kr",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO 2022 IR 87":  "iso-2022-jp",
}

// lookupEncoding returns the encoding for a DICOM character set name. A nil
// encoding means the bytes are used as is.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch name {
	case "ISO_IR 100", "ISO 2022 IR 100":
		// htmlindex folds latin1 into windows-1252, which differs
		// in the 0x80-0x9f range.
		return charmap.ISO8859_1, nil
	}
	htmlName, ok := htmlEncodingNames[name]
	if !ok {
		vlog.Errorf("Unknown character set '%s'. Assuming utf-8", name)
		return nil, nil
	}
	if htmlName == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(htmlName)
	if err != nil {
		return nil, fmt.Errorf("encoding name %s (for %s) not found: %w", htmlName, name, err)
	}
	return enc, nil
}

// Convert DICOM character encoding names, such as "ISO-IR 100" to golang
// decoder. It will return nil, nil for the default (7bit ASCII)
// encoding. Cf. P3.2
// D.6.2. http://dicom.nema.org/medical/dicom/2016d/output/chtml/part02/sect_D.6.2.html
func parseSpecificCharacterSet(elem *Element) (dicomio.CodingSystem, error) {
	encodingNames, err := elem.GetStrings()
	if err != nil {
		return dicomio.CodingSystem{}, err
	}
	var decoders []*encoding.Decoder
	for _, name := range encodingNames {
		enc, err := lookupEncoding(name)
		if err != nil {
			return dicomio.CodingSystem{}, err
		}
		var c *encoding.Decoder
		if enc != nil {
			c = enc.NewDecoder()
		}
		decoders = append(decoders, c)
	}
	switch len(decoders) {
	case 0:
		return dicomio.CodingSystem{}, nil
	case 1:
		return dicomio.CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[0], Phonetic: decoders[0]}, nil
	case 2:
		return dicomio.CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[1]}, nil
	default:
		return dicomio.CodingSystem{Alphabetic: decoders[0], Ideographic: decoders[1], Phonetic: decoders[2]}, nil
	}
}

// stringEncoder returns the utf8 -> []byte encoder for the character set
// declared by elem. Only the first (alphabetic) character set is used when
// writing.
func stringEncoder(elem *Element) (*encoding.Encoder, error) {
	encodingNames, err := elem.GetStrings()
	if err != nil {
		return nil, err
	}
	if len(encodingNames) == 0 {
		return nil, nil
	}
	enc, err := lookupEncoding(encodingNames[0])
	if err != nil || enc == nil {
		return nil, err
	}
	return enc.NewEncoder(), nil
}

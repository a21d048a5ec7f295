package imageproc

import (
	"encoding/binary"
)

// ftyp brands that mark HEIC/HEIF/HEVC containers.
var heicBrands = map[string]bool{
	"heic": true,
	"heix": true,
	"heim": true,
	"heis": true,
	"hevc": true,
	"hevx": true,
	"hevm": true,
	"hevs": true,
	"mif1": true,
	"msf1": true,
}

// IsHEIC reports whether the leading bytes look like a HEIC/HEIF container.
// It checks the ftyp box major brand and then the compatible-brand list, so
// mislabeled uploads are caught regardless of declared content type.
func IsHEIC(head []byte) bool {
	if len(head) < 12 {
		return false
	}

	if string(head[4:8]) != "ftyp" {
		return false
	}

	if heicBrands[string(head[8:12])] {
		return true
	}

	boxSize := int(binary.BigEndian.Uint32(head[0:4]))
	if boxSize > len(head) {
		boxSize = len(head)
	}

	// compatible brands start after size, "ftyp", major brand and minor version
	for off := 16; off+4 <= boxSize; off += 4 {
		if heicBrands[string(head[off:off+4])] {
			return true
		}
	}

	return false
}

// Package tiff implements the subset of TIFF 6.0 used by scientific stack
// acquisition tooling: multi-page grayscale files with 8- or 16-bit unsigned
// samples in strip layout, uncompressed or Deflate-compressed, in either byte
// order. It exposes the page tags (resolution, ImageJ description, ...) that
// downstream interpretation needs, and writes single-page 16-bit grayscale
// files for projection exports.
//
// Everything outside that subset (BigTIFF, tiles, palette/RGB color, LZW,
// floating point samples) is rejected with a typed sentinel error naming the
// unsupported feature, never decoded approximately.
package tiff

import "fmt"

// TagID identifies a TIFF tag.
type TagID uint16

// Tags read by the decoder. Values are the standard TIFF 6.0 assignments.
const (
	TagImageWidth       TagID = 256
	TagImageLength      TagID = 257
	TagBitsPerSample    TagID = 258
	TagCompression      TagID = 259
	TagPhotometric      TagID = 262
	TagImageDescription TagID = 270
	TagStripOffsets     TagID = 273
	TagSamplesPerPixel  TagID = 277
	TagRowsPerStrip     TagID = 278
	TagStripByteCounts  TagID = 279
	TagXResolution      TagID = 282
	TagYResolution      TagID = 283
	TagResolutionUnit   TagID = 296
	TagSampleFormat     TagID = 339
	TagTileWidth        TagID = 322
	TagTileLength       TagID = 323
)

// tagNames maps known tag IDs to their TIFF 6.0 names for display.
var tagNames = map[TagID]string{
	TagImageWidth:       "ImageWidth",
	TagImageLength:      "ImageLength",
	TagBitsPerSample:    "BitsPerSample",
	TagCompression:      "Compression",
	TagPhotometric:      "PhotometricInterpretation",
	TagImageDescription: "ImageDescription",
	TagStripOffsets:     "StripOffsets",
	TagSamplesPerPixel:  "SamplesPerPixel",
	TagRowsPerStrip:     "RowsPerStrip",
	TagStripByteCounts:  "StripByteCounts",
	TagXResolution:      "XResolution",
	TagYResolution:      "YResolution",
	TagResolutionUnit:   "ResolutionUnit",
	TagSampleFormat:     "SampleFormat",
	TagTileWidth:        "TileWidth",
	TagTileLength:       "TileLength",
}

// Name returns the TIFF 6.0 tag name, or "Tag<n>" for unknown tags.
func (id TagID) Name() string {
	if name, ok := tagNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Tag%d", id)
}

// Compression scheme values.
const (
	CompressionNone       = 1
	CompressionLZW        = 5
	CompressionDeflate    = 8
	CompressionOldDeflate = 32946 // pre-standard Deflate code, still emitted by some writers
	CompressionPackBits   = 32773
)

// PhotometricInterpretation values for grayscale data.
const (
	PhotometricWhiteIsZero = 0
	PhotometricBlackIsZero = 1
)

// ResolutionUnit values.
const (
	ResolutionUnitNone       = 1
	ResolutionUnitInch       = 2
	ResolutionUnitCentimeter = 3
)

// Field types from the TIFF 6.0 entry encoding.
const (
	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeSByte     = 6
	typeUndefined = 7
	typeSShort    = 8
	typeSLong     = 9
	typeSRational = 10
	typeFloat     = 11
	typeDouble    = 12
)

// typeSizes maps field types to their per-element byte size.
var typeSizes = [13]int{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Rational is an unsigned TIFF rational value.
type Rational struct {
	Num uint32
	Den uint32
}

// Float returns the rational as a float64, or 0 when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders the rational as "num/den".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

package tiff

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/vcnlab/stackscope/internal/errors"
)

// Gray16Image is a 16-bit grayscale image in row-major order.
type Gray16Image struct {
	Width  int
	Height int
	Pix    []uint16
}

// EncodeOptions carries the optional metadata written alongside the pixels.
type EncodeOptions struct {
	// Description is written as ImageDescription when non-empty.
	Description string

	// XResolution and YResolution are pixels-per-unit rationals.
	// A zero denominator omits the tag.
	XResolution Rational
	YResolution Rational

	// ResolutionUnit names the unit of the resolution tags.
	// Zero defaults to ResolutionUnitCentimeter, the unit microscopy
	// acquisition software writes.
	ResolutionUnit uint16
}

// ifdTag is one tag staged for encoding.
type ifdTag struct {
	id    TagID
	typ   uint16
	count uint32
	// value fits inline; external holds data placed after the IFD instead.
	value    uint32
	external []byte
}

// EncodeGray16 writes img as a single-page, uncompressed, little-endian,
// 16-bit grayscale TIFF. This is the format projection exports use so other
// analysis tooling can read them back without precision loss.
func EncodeGray16(w io.Writer, img *Gray16Image, opts EncodeOptions) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errors.Wrap(errors.ErrEmptyValue, "image dimensions")
	}
	if len(img.Pix) != img.Width*img.Height {
		return errors.Wrapf(errors.ErrCorruptTIFF, "pixel buffer holds %d samples, want %d", len(img.Pix), img.Width*img.Height)
	}

	if opts.ResolutionUnit == 0 {
		opts.ResolutionUnit = ResolutionUnitCentimeter
	}

	order := binary.LittleEndian
	pixBytes := 2 * img.Width * img.Height

	// File layout: 8-byte header, pixel strip, IFD, external tag values.
	const dataOffset = 8
	ifdOffset := dataOffset + pixBytes

	tags := buildGray16Tags(img, opts, dataOffset)

	var buf bytes.Buffer
	buf.Grow(ifdOffset + 2 + len(tags)*12 + 4 + 64)

	// Header
	buf.WriteString("II")
	writeU16(&buf, order, 42)
	writeU32(&buf, order, uint32(dataOffset)+uint32(pixBytes)) //nolint:gosec // sizes validated above

	// Pixel strip
	for _, s := range img.Pix {
		writeU16(&buf, order, s)
	}

	// External values live after the IFD; assign their offsets now.
	extOffset := uint32(ifdOffset + 2 + len(tags)*12 + 4) //nolint:gosec // bounded by layout
	var extData bytes.Buffer
	for i := range tags {
		if tags[i].external == nil {
			continue
		}
		tags[i].value = extOffset + uint32(extData.Len()) //nolint:gosec // bounded by layout
		extData.Write(tags[i].external)
		if extData.Len()%2 == 1 {
			extData.WriteByte(0) // keep values word-aligned
		}
	}

	// IFD
	writeU16(&buf, order, uint16(len(tags))) //nolint:gosec // tag count is small and fixed
	for _, t := range tags {
		writeU16(&buf, order, uint16(t.id))
		writeU16(&buf, order, t.typ)
		writeU32(&buf, order, t.count)
		writeU32(&buf, order, t.value)
	}
	writeU32(&buf, order, 0) // no next IFD

	buf.Write(extData.Bytes())

	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "failed to write TIFF")
}

// WriteGray16File encodes img to a new file at path.
func WriteGray16File(path string, img *Gray16Image, opts EncodeOptions) error {
	f, err := os.Create(path) // #nosec G304 -- caller controls the artifact path
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := EncodeGray16(f, img, opts); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

// buildGray16Tags stages the IFD entries in ascending tag order, as the
// format requires.
func buildGray16Tags(img *Gray16Image, opts EncodeOptions, dataOffset int) []ifdTag {
	width := uint32(img.Width)   //nolint:gosec // validated positive
	height := uint32(img.Height) //nolint:gosec // validated positive
	pixBytes := 2 * width * height

	tags := []ifdTag{
		{id: TagImageWidth, typ: typeLong, count: 1, value: width},
		{id: TagImageLength, typ: typeLong, count: 1, value: height},
		{id: TagBitsPerSample, typ: typeShort, count: 1, value: 16},
		{id: TagCompression, typ: typeShort, count: 1, value: CompressionNone},
		{id: TagPhotometric, typ: typeShort, count: 1, value: PhotometricBlackIsZero},
	}

	if opts.Description != "" {
		// ASCII values carry a NUL terminator and count includes it.
		value := append([]byte(opts.Description), 0)
		tag := ifdTag{id: TagImageDescription, typ: typeASCII, count: uint32(len(value))} //nolint:gosec // description length is caller-bounded
		if len(value) <= 4 {
			var inline [4]byte
			copy(inline[:], value)
			tag.value = binary.LittleEndian.Uint32(inline[:])
		} else {
			tag.external = value
		}
		tags = append(tags, tag)
	}

	tags = append(tags,
		ifdTag{id: TagStripOffsets, typ: typeLong, count: 1, value: uint32(dataOffset)}, //nolint:gosec // fixed layout
		ifdTag{id: TagSamplesPerPixel, typ: typeShort, count: 1, value: 1},
		ifdTag{id: TagRowsPerStrip, typ: typeLong, count: 1, value: height},
		ifdTag{id: TagStripByteCounts, typ: typeLong, count: 1, value: pixBytes},
	)

	if opts.XResolution.Den != 0 {
		tags = append(tags, ifdTag{id: TagXResolution, typ: typeRational, count: 1, external: encodeRational(opts.XResolution)})
	}
	if opts.YResolution.Den != 0 {
		tags = append(tags, ifdTag{id: TagYResolution, typ: typeRational, count: 1, external: encodeRational(opts.YResolution)})
	}
	if opts.XResolution.Den != 0 || opts.YResolution.Den != 0 {
		tags = append(tags, ifdTag{id: TagResolutionUnit, typ: typeShort, count: 1, value: uint32(opts.ResolutionUnit)})
	}

	return tags
}

// encodeRational encodes a RATIONAL value in little-endian order.
func encodeRational(r Rational) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out[0:4], r.Num)
	binary.LittleEndian.PutUint32(out[4:8], r.Den)
	return out
}

func writeU16(buf *bytes.Buffer, order binary.ByteOrder, v uint16) {
	var b [2]byte
	order.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	buf.Write(b[:])
}

package testutil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"os"
	"testing"
)

// TIFF encoding constants, duplicated here on purpose: the builder is the
// independent counterpart the internal/tiff reader tests decode against, so it
// must not share code with the package under test.
const (
	tagImageWidth       = 256
	tagImageLength      = 257
	tagBitsPerSample    = 258
	tagCompression      = 259
	tagPhotometric      = 262
	tagImageDescription = 270
	tagStripOffsets     = 273
	tagSamplesPerPixel  = 277
	tagRowsPerStrip     = 278
	tagStripByteCounts  = 279
	tagXResolution      = 282
	tagYResolution      = 283
	tagResolutionUnit   = 296

	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
)

// PageSpec describes one synthetic TIFF page.
type PageSpec struct {
	Width  int
	Height int
	// Bits is 8 or 16.
	Bits int
	// Pix holds Width*Height samples; 8-bit pages use the low byte.
	Pix []uint16
	// Description is written as ImageDescription when non-empty.
	Description string
	// XResNum/XResDen and YResNum/YResDen are pixels-per-unit rationals,
	// written when the denominator is non-zero.
	XResNum, XResDen uint32
	YResNum, YResDen uint32
	// ResUnit is the ResolutionUnit tag value written alongside the
	// rationals. Zero defaults to 3 (centimeter).
	ResUnit uint32
	// Deflate compresses the strip with zlib when set.
	Deflate bool
}

// builderTag is one staged IFD entry.
type builderTag struct {
	id       uint16
	typ      uint16
	count    uint32
	value    uint32
	external []byte
}

// BuildTIFF encodes the pages as a little-endian multi-page TIFF.
func BuildTIFF(t *testing.T, pages ...PageSpec) []byte {
	t.Helper()

	le := binary.LittleEndian
	var buf bytes.Buffer
	buf.WriteString("II")
	appendU16(&buf, le, 42)
	appendU32(&buf, le, 0) // first IFD offset, patched below

	patchAt := 4 // position of the pointer to the next IFD
	out := buf.Bytes()

	for _, spec := range pages {
		if len(spec.Pix) != spec.Width*spec.Height {
			t.Fatalf("page spec holds %d samples, want %d", len(spec.Pix), spec.Width*spec.Height)
		}

		strip := encodeStrip(t, spec)

		if len(out)%2 == 1 {
			out = append(out, 0)
		}
		stripOff := len(out)
		out = append(out, strip...)
		if len(out)%2 == 1 {
			out = append(out, 0)
		}
		ifdOff := len(out)

		le.PutUint32(out[patchAt:patchAt+4], uint32(ifdOff))

		tags := buildPageTags(spec, stripOff, len(strip))
		out, patchAt = appendIFD(out, le, tags)
	}

	return out
}

// WriteTIFF builds the pages and writes them to a file, returning the path.
func WriteTIFF(t *testing.T, path string, pages ...PageSpec) string {
	t.Helper()

	data := BuildTIFF(t, pages...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write fixture TIFF: %v", err)
	}
	return path
}

// GradientPage returns a page whose samples sweep 0..max row by row, handy
// for percentile and projection assertions.
func GradientPage(width, height, bits int) PageSpec {
	maxSample := uint16(255)
	if bits == 16 {
		maxSample = 65535
	}
	pix := make([]uint16, width*height)
	if len(pix) > 1 {
		for i := range pix {
			pix[i] = uint16(uint64(i) * uint64(maxSample) / uint64(len(pix)-1))
		}
	}
	return PageSpec{Width: width, Height: height, Bits: bits, Pix: pix}
}

// UniformPage returns a page filled with a single sample value.
func UniformPage(width, height, bits int, value uint16) PageSpec {
	pix := make([]uint16, width*height)
	for i := range pix {
		pix[i] = value
	}
	return PageSpec{Width: width, Height: height, Bits: bits, Pix: pix}
}

// encodeStrip encodes the page samples as one strip.
func encodeStrip(t *testing.T, spec PageSpec) []byte {
	t.Helper()

	var raw []byte
	if spec.Bits == 8 {
		raw = make([]byte, len(spec.Pix))
		for i, s := range spec.Pix {
			raw[i] = byte(s)
		}
	} else {
		raw = make([]byte, 2*len(spec.Pix))
		for i, s := range spec.Pix {
			binary.LittleEndian.PutUint16(raw[2*i:2*i+2], s)
		}
	}

	if !spec.Deflate {
		return raw
	}
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("failed to deflate strip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close deflate stream: %v", err)
	}
	return zbuf.Bytes()
}

// buildPageTags stages the IFD entries for a page in ascending tag order.
func buildPageTags(spec PageSpec, stripOff, stripLen int) []builderTag {
	compression := uint32(1)
	if spec.Deflate {
		compression = 8
	}

	tags := []builderTag{
		{id: tagImageWidth, typ: typeLong, count: 1, value: uint32(spec.Width)},
		{id: tagImageLength, typ: typeLong, count: 1, value: uint32(spec.Height)},
		{id: tagBitsPerSample, typ: typeShort, count: 1, value: uint32(spec.Bits)},
		{id: tagCompression, typ: typeShort, count: 1, value: compression},
		{id: tagPhotometric, typ: typeShort, count: 1, value: 1},
	}

	if spec.Description != "" {
		value := append([]byte(spec.Description), 0)
		tag := builderTag{id: tagImageDescription, typ: typeASCII, count: uint32(len(value))}
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
		builderTag{id: tagStripOffsets, typ: typeLong, count: 1, value: uint32(stripOff)},
		builderTag{id: tagSamplesPerPixel, typ: typeShort, count: 1, value: 1},
		builderTag{id: tagRowsPerStrip, typ: typeLong, count: 1, value: uint32(spec.Height)},
		builderTag{id: tagStripByteCounts, typ: typeLong, count: 1, value: uint32(stripLen)},
	)

	if spec.XResDen != 0 {
		tags = append(tags, builderTag{id: tagXResolution, typ: typeRational, count: 1, external: rationalBytes(spec.XResNum, spec.XResDen)})
	}
	if spec.YResDen != 0 {
		tags = append(tags, builderTag{id: tagYResolution, typ: typeRational, count: 1, external: rationalBytes(spec.YResNum, spec.YResDen)})
	}
	if spec.XResDen != 0 || spec.YResDen != 0 {
		// ResolutionUnit 3 = centimeter, the unit microscopy stacks use.
		unit := spec.ResUnit
		if unit == 0 {
			unit = 3
		}
		tags = append(tags, builderTag{id: tagResolutionUnit, typ: typeShort, count: 1, value: unit})
	}

	return tags
}

// appendIFD writes an IFD (with external values) at the end of out.
// Returns the grown slice and the byte position of the next-IFD pointer.
func appendIFD(out []byte, le binary.ByteOrder, tags []builderTag) ([]byte, int) {
	ifdOff := len(out)
	extOff := ifdOff + 2 + len(tags)*12 + 4

	var ext bytes.Buffer
	for i := range tags {
		if tags[i].external == nil {
			continue
		}
		tags[i].value = uint32(extOff + ext.Len())
		ext.Write(tags[i].external)
		if ext.Len()%2 == 1 {
			ext.WriteByte(0)
		}
	}

	var ifd bytes.Buffer
	appendU16(&ifd, le, uint16(len(tags)))
	for _, tag := range tags {
		appendU16(&ifd, le, tag.id)
		appendU16(&ifd, le, tag.typ)
		appendU32(&ifd, le, tag.count)
		appendU32(&ifd, le, tag.value)
	}
	nextPtr := ifdOff + ifd.Len()
	appendU32(&ifd, le, 0) // next IFD offset, patched by the caller

	out = append(out, ifd.Bytes()...)
	out = append(out, ext.Bytes()...)
	return out, nextPtr
}

// rationalBytes encodes a TIFF RATIONAL (numerator, denominator) as the
// builder's little-endian external value bytes.
func rationalBytes(num, den uint32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:4], num)
	binary.LittleEndian.PutUint32(b[4:8], den)
	return b
}

func appendU16(buf *bytes.Buffer, order binary.ByteOrder, v uint16) {
	var b [2]byte
	order.PutUint16(b[:], v)
	buf.Write(b[:])
}

func appendU32(buf *bytes.Buffer, order binary.ByteOrder, v uint32) {
	var b [4]byte
	order.PutUint32(b[:], v)
	buf.Write(b[:])
}

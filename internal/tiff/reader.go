package tiff

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vcnlab/stackscope/internal/errors"
)

// maxPageDimension bounds the dimension tags. A forged IFD can claim
// dimensions whose pixel-buffer size overflows int; real acquisition frames
// are a few thousand pixels per side.
const maxPageDimension = 1 << 20

// entry is one raw IFD entry. The value field is kept verbatim; interpretation
// happens lazily through the File accessors so unknown tags survive for display.
type entry struct {
	id    TagID
	typ   uint16
	count uint32
	raw   [4]byte
}

// Page is one decoded IFD with its tags interpreted.
// Pixel data is decoded on demand via DecodePixels.
type Page struct {
	// Index is the zero-based page position in the file.
	Index int

	// Width and Height are the page dimensions in pixels.
	Width  int
	Height int

	// BitsPerSample is 8 or 16.
	BitsPerSample int

	// Compression is the raw compression tag value (see Compression* constants).
	Compression uint16

	// Photometric is the raw PhotometricInterpretation value.
	Photometric uint16

	// Description is the ImageDescription tag, empty when absent.
	// For ImageJ-written stacks this carries the axis metadata block.
	Description string

	// XResolution and YResolution are pixels-per-unit rationals.
	// A zero rational means the tag was absent.
	XResolution Rational
	YResolution Rational

	// ResolutionUnit is the raw ResolutionUnit value (defaults to inch).
	ResolutionUnit uint16

	file            *File
	entries         []entry
	stripOffsets    []uint32
	stripByteCounts []uint32
}

// TagEntry is a display-ready tag with its decoded value.
type TagEntry struct {
	ID    TagID
	Name  string
	Value string
}

// File is a parsed TIFF file. The raw bytes are retained so pages can decode
// their strips on demand; stacks are loaded whole into RAM, matching how the
// acquisition tooling consumes them.
type File struct {
	// Pages lists the IFDs in file order.
	Pages []*Page

	order binary.ByteOrder
	data  []byte
}

// Open reads and parses the TIFF file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied stack path is the point
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return Decode(data)
}

// Decode parses a TIFF file from memory.
// It validates the header, walks the IFD chain, and interprets the tags of
// every page. Strip data is validated lazily by DecodePixels.
func Decode(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, errors.ErrNotTIFF
	}

	f := &File{data: data}
	switch {
	case data[0] == 'I' && data[1] == 'I':
		f.order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		f.order = binary.BigEndian
	default:
		return nil, errors.ErrNotTIFF
	}

	switch magic := f.order.Uint16(data[2:4]); magic {
	case 42:
		// classic TIFF
	case 43:
		return nil, errors.Wrap(errors.ErrUnsupportedTIFF, "BigTIFF")
	default:
		return nil, errors.ErrNotTIFF
	}

	offset := f.order.Uint32(data[4:8])
	seen := make(map[uint32]bool)

	for offset != 0 {
		if seen[offset] {
			return nil, errors.Wrap(errors.ErrCorruptTIFF, "IFD chain contains a cycle")
		}
		seen[offset] = true

		next, err := f.parseIFD(offset)
		if err != nil {
			return nil, errors.Wrapf(err, "page %d", len(f.Pages))
		}
		offset = next
	}

	if len(f.Pages) == 0 {
		return nil, errors.ErrEmptyStack
	}
	return f, nil
}

// parseIFD parses one IFD at the given offset, appends the resulting page,
// and returns the offset of the next IFD (0 for the last one).
func (f *File) parseIFD(offset uint32) (uint32, error) {
	if int64(offset)+2 > int64(len(f.data)) {
		return 0, errors.Wrap(errors.ErrCorruptTIFF, "IFD offset past end of file")
	}
	n := int(f.order.Uint16(f.data[offset : offset+2]))
	end := int64(offset) + 2 + int64(n)*12 + 4
	if end > int64(len(f.data)) {
		return 0, errors.Wrap(errors.ErrCorruptTIFF, "truncated IFD")
	}

	page := &Page{
		Index:          len(f.Pages),
		file:           f,
		entries:        make([]entry, 0, n),
		Compression:    CompressionNone,
		Photometric:    PhotometricBlackIsZero,
		BitsPerSample:  1, // TIFF default; validated below
		ResolutionUnit: ResolutionUnitInch,
	}

	for i := 0; i < n; i++ {
		base := int(offset) + 2 + i*12
		e := entry{
			id:    TagID(f.order.Uint16(f.data[base : base+2])),
			typ:   f.order.Uint16(f.data[base+2 : base+4]),
			count: f.order.Uint32(f.data[base+4 : base+8]),
		}
		copy(e.raw[:], f.data[base+8:base+12])
		page.entries = append(page.entries, e)
	}

	if err := f.interpretPage(page); err != nil {
		return 0, err
	}
	f.Pages = append(f.Pages, page)

	return f.order.Uint32(f.data[end-4 : end]), nil
}

// interpretPage materializes the typed Page fields from the raw entries and
// rejects anything outside the supported baseline.
func (f *File) interpretPage(p *Page) error {
	samplesPerPixel := 1
	sampleFormat := 1

	for _, e := range p.entries {
		switch e.id {
		case TagImageWidth:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.Width = int(v)
		case TagImageLength:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.Height = int(v)
		case TagBitsPerSample:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.BitsPerSample = int(v)
		case TagCompression:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.Compression = uint16(v)
		case TagPhotometric:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.Photometric = uint16(v)
		case TagImageDescription:
			s, err := f.asciiValue(e)
			if err != nil {
				return err
			}
			p.Description = s
		case TagStripOffsets:
			vals, err := f.uintValues(e)
			if err != nil {
				return err
			}
			p.stripOffsets = vals
		case TagStripByteCounts:
			vals, err := f.uintValues(e)
			if err != nil {
				return err
			}
			p.stripByteCounts = vals
		case TagSamplesPerPixel:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			samplesPerPixel = int(v)
		case TagXResolution:
			r, err := f.rationalValue(e)
			if err != nil {
				return err
			}
			p.XResolution = r
		case TagYResolution:
			r, err := f.rationalValue(e)
			if err != nil {
				return err
			}
			p.YResolution = r
		case TagResolutionUnit:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			p.ResolutionUnit = uint16(v)
		case TagSampleFormat:
			v, err := f.firstUint(e)
			if err != nil {
				return err
			}
			sampleFormat = int(v)
		case TagTileWidth, TagTileLength:
			return errors.Wrap(errors.ErrUnsupportedTIFF, "tiled layout")
		}
	}

	if p.Width <= 0 || p.Height <= 0 {
		return errors.Wrap(errors.ErrCorruptTIFF, "missing image dimensions")
	}
	if p.Width > maxPageDimension || p.Height > maxPageDimension {
		return errors.Wrapf(errors.ErrCorruptTIFF, "implausible page dimensions %dx%d", p.Width, p.Height)
	}
	if samplesPerPixel != 1 {
		return errors.Wrapf(errors.ErrUnsupportedTIFF, "%d samples per pixel", samplesPerPixel)
	}
	if p.Photometric != PhotometricBlackIsZero && p.Photometric != PhotometricWhiteIsZero {
		return errors.Wrapf(errors.ErrUnsupportedTIFF, "photometric interpretation %d", p.Photometric)
	}
	if p.BitsPerSample != 8 && p.BitsPerSample != 16 {
		return errors.Wrapf(errors.ErrUnsupportedTIFF, "%d bits per sample", p.BitsPerSample)
	}
	if sampleFormat != 1 {
		return errors.Wrapf(errors.ErrUnsupportedTIFF, "sample format %d", sampleFormat)
	}
	switch p.Compression {
	case CompressionNone, CompressionDeflate, CompressionOldDeflate:
	case CompressionLZW:
		return errors.Wrap(errors.ErrUnsupportedCompression, "LZW")
	case CompressionPackBits:
		return errors.Wrap(errors.ErrUnsupportedCompression, "PackBits")
	default:
		return errors.Wrapf(errors.ErrUnsupportedCompression, "scheme %d", p.Compression)
	}
	if len(p.stripOffsets) == 0 || len(p.stripOffsets) != len(p.stripByteCounts) {
		return errors.Wrap(errors.ErrCorruptTIFF, "inconsistent strip layout")
	}
	return nil
}

// DecodePixels decodes the page's strips into a row-major sample slice.
// 8-bit samples are widened into uint16 without rescaling; BitsPerSample
// records the source depth.
func (p *Page) DecodePixels() ([]uint16, error) {
	bytesPerSample := p.BitsPerSample / 8
	want := p.Width * p.Height * bytesPerSample

	raw := make([]byte, 0, want)
	for i, off := range p.stripOffsets {
		segment, err := p.file.stripData(off, p.stripByteCounts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "page %d strip %d", p.Index, i)
		}
		if p.Compression != CompressionNone {
			segment, err = inflate(segment)
			if err != nil {
				return nil, errors.Wrapf(err, "page %d strip %d", p.Index, i)
			}
		}
		raw = append(raw, segment...)
	}

	// The final strip may be padded past the image end; anything shorter is truncation.
	if len(raw) < want {
		return nil, errors.Wrapf(errors.ErrCorruptTIFF, "page %d has %d of %d pixel bytes", p.Index, len(raw), want)
	}
	raw = raw[:want]

	pix := make([]uint16, p.Width*p.Height)
	if bytesPerSample == 1 {
		for i, b := range raw {
			pix[i] = uint16(b)
		}
	} else {
		for i := range pix {
			pix[i] = p.file.order.Uint16(raw[2*i : 2*i+2])
		}
	}
	return pix, nil
}

// Entries returns display-ready tag entries in file order.
func (p *Page) Entries() []TagEntry {
	out := make([]TagEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, TagEntry{
			ID:    e.id,
			Name:  e.id.Name(),
			Value: p.file.formatValue(e),
		})
	}
	return out
}

// stripData returns the raw bytes of one strip with bounds checking.
func (f *File) stripData(off, count uint32) ([]byte, error) {
	end := int64(off) + int64(count)
	if end > int64(len(f.data)) {
		return nil, errors.Wrap(errors.ErrCorruptTIFF, "strip extends past end of file")
	}
	return f.data[off:end], nil
}

// inflate decompresses a Deflate strip. Both the standard zlib-wrapped form
// and the bare-deflate form emitted by old writers are accepted.
func inflate(segment []byte) ([]byte, error) {
	var r io.ReadCloser
	if zr, err := zlib.NewReader(bytes.NewReader(segment)); err == nil {
		r = zr
	} else {
		// No zlib header. Old writers emit the compressed stream without it.
		r = flate.NewReader(bytes.NewReader(segment))
	}
	defer func() { _ = r.Close() }()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCorruptTIFF, "bad deflate stream")
	}
	return out, nil
}

// valueBytes returns the encoded value of an entry, following the offset
// indirection when the value does not fit in the 4 inline bytes.
func (f *File) valueBytes(e entry) ([]byte, error) {
	if int(e.typ) >= len(typeSizes) || typeSizes[e.typ] == 0 {
		return nil, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s has unknown field type %d", e.id.Name(), e.typ)
	}
	size := int64(typeSizes[e.typ]) * int64(e.count)
	if size <= 4 {
		return e.raw[:size], nil
	}
	off := int64(f.order.Uint32(e.raw[:]))
	if off+size > int64(len(f.data)) {
		return nil, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s value extends past end of file", e.id.Name())
	}
	return f.data[off : off+size], nil
}

// uintValues decodes an entry holding unsigned integers (BYTE/SHORT/LONG).
func (f *File) uintValues(e entry) ([]uint32, error) {
	data, err := f.valueBytes(e)
	if err != nil {
		return nil, err
	}
	vals := make([]uint32, e.count)
	switch e.typ {
	case typeByte:
		for i := range vals {
			vals[i] = uint32(data[i])
		}
	case typeShort:
		for i := range vals {
			vals[i] = uint32(f.order.Uint16(data[2*i : 2*i+2]))
		}
	case typeLong:
		for i := range vals {
			vals[i] = f.order.Uint32(data[4*i : 4*i+4])
		}
	default:
		return nil, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s is not an integer tag", e.id.Name())
	}
	return vals, nil
}

// firstUint decodes the first unsigned integer of an entry.
func (f *File) firstUint(e entry) (uint32, error) {
	vals, err := f.uintValues(e)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s has no value", e.id.Name())
	}
	return vals[0], nil
}

// rationalValue decodes the first RATIONAL of an entry.
func (f *File) rationalValue(e entry) (Rational, error) {
	if e.typ != typeRational {
		return Rational{}, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s is not a rational tag", e.id.Name())
	}
	data, err := f.valueBytes(e)
	if err != nil {
		return Rational{}, err
	}
	if len(data) < 8 {
		return Rational{}, errors.Wrapf(errors.ErrCorruptTIFF, "tag %s has no value", e.id.Name())
	}
	return Rational{Num: f.order.Uint32(data[0:4]), Den: f.order.Uint32(data[4:8])}, nil
}

// asciiValue decodes an ASCII entry, trimming the mandatory NUL terminator.
func (f *File) asciiValue(e entry) (string, error) {
	if e.typ != typeASCII {
		return "", errors.Wrapf(errors.ErrCorruptTIFF, "tag %s is not an ASCII tag", e.id.Name())
	}
	data, err := f.valueBytes(e)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\x00"), nil
}

// formatValue renders an entry for tag listings. Decode failures render as an
// error note instead of failing the listing; info output should survive an
// odd vendor tag.
func (f *File) formatValue(e entry) string {
	switch e.typ {
	case typeASCII:
		s, err := f.asciiValue(e)
		if err != nil {
			return "<unreadable>"
		}
		return s
	case typeRational:
		r, err := f.rationalValue(e)
		if err != nil {
			return "<unreadable>"
		}
		return fmt.Sprintf("%s (%g)", r, r.Float())
	case typeByte, typeShort, typeLong:
		vals, err := f.uintValues(e)
		if err != nil {
			return "<unreadable>"
		}
		parts := make([]string, 0, len(vals))
		for _, v := range vals {
			parts = append(parts, fmt.Sprintf("%d", v))
		}
		if len(parts) > 8 {
			return fmt.Sprintf("%s ... (%d values)", strings.Join(parts[:8], " "), len(vals))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("<%d bytes of type %d>", int64(typeSizes[min(int(e.typ), len(typeSizes)-1)])*int64(e.count), e.typ)
	}
}

package filesig

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// TextDetectorName is the registered name of the text detector.
const TextDetectorName = "text"

// DefaultTextSampleSize is how many leading bytes the text detector reads.
const DefaultTextSampleSize = 1024

// Encoding labels reported as the version of text formats
const (
	EncodingUTF8     = "utf-8"
	EncodingCP1252   = "cp1252"
	EncodingISO88591 = "iso-8859-1"
	EncodingUTF16BE  = "utf-16/big-endian"
	EncodingUTF16LE  = "utf-16/little-endian"
	EncodingUTF32BE  = "utf-32/big-endian"
	EncodingUTF32LE  = "utf-32/little-endian"
)

const (
	bomThreshold      = 0.9
	utf8BOMThreshold  = 0.8
	roundTripFraction = 0.9
)

// textCodec is one candidate encoding. width is the code unit size in bytes.
type textCodec struct {
	label  string
	enc    encoding.Encoding
	width  int
	utf8   bool
	strict bool
}

var (
	codecUTF8    = textCodec{label: EncodingUTF8, enc: unicode.UTF8, width: 1, utf8: true, strict: true}
	codecCP1252  = textCodec{label: EncodingCP1252, enc: charmap.Windows1252, width: 1}
	codecLatin1  = textCodec{label: EncodingISO88591, enc: charmap.ISO8859_1, width: 1}
	codecUTF16BE = textCodec{label: EncodingUTF16BE, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), width: 2}
	codecUTF16LE = textCodec{label: EncodingUTF16LE, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), width: 2}
	codecUTF32BE = textCodec{label: EncodingUTF32BE, enc: utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), width: 4}
	codecUTF32LE = textCodec{label: EncodingUTF32LE, enc: utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), width: 4}
)

// byteOrderMark ties a BOM to its codec. Longer marks come first so that the
// UTF-32 little-endian mark is not taken for UTF-16.
type byteOrderMark struct {
	mark      []byte
	codec     textCodec
	threshold float64
	// divisor is the byte width used to estimate the maximum number of code
	// units the remainder can hold.
	divisor int
}

var byteOrderMarks = []byteOrderMark{
	{mark: []byte{0x00, 0x00, 0xFE, 0xFF}, codec: codecUTF32BE, threshold: bomThreshold, divisor: 4},
	{mark: []byte{0xFF, 0xFE, 0x00, 0x00}, codec: codecUTF32LE, threshold: bomThreshold, divisor: 4},
	{mark: []byte{0xFE, 0xFF}, codec: codecUTF16BE, threshold: bomThreshold, divisor: 2},
	{mark: []byte{0xFF, 0xFE}, codec: codecUTF16LE, threshold: bomThreshold, divisor: 2},
	{mark: []byte{0xEF, 0xBB, 0xBF}, codec: codecUTF8, threshold: utf8BOMThreshold, divisor: 2},
}

// roundTripCodecs are tried in order when no BOM settles the encoding.
var roundTripCodecs = []textCodec{
	codecUTF8,
	codecCP1252,
	codecLatin1,
	codecUTF16BE,
	codecUTF16LE,
	codecUTF32BE,
	codecUTF32LE,
}

// textKind refines "text" by a marker found in the decoded content.
type textKind struct {
	name      string
	marker    string
	mimeType  string
	extension string
}

var textKinds = []textKind{
	{name: "xml", marker: "<?xml", mimeType: MIMETypeTextXML, extension: ".xml"},
	{name: "linqpad", marker: "<Query Kind=", mimeType: MIMETypeTextPlain, extension: ".linq"},
	{name: "sln", marker: "Microsoft Visual Studio Solution File", mimeType: MIMETypeTextPlain, extension: ".sln"},
}

var plainText = textKind{name: "plain", mimeType: MIMETypeTextPlain, extension: ".txt"}

// TextDetector decides whether content is plausibly text and in which
// encoding. It first honors a byte order mark, then tries a fixed list of
// encodings and accepts the first one whose decode and re-encode reproduces
// the original bytes.
type TextDetector struct {
	sampleSize int
}

// NewTextDetector creates a text detector reading sampleSize leading bytes.
// A non-positive size selects DefaultTextSampleSize.
func NewTextDetector(sampleSize int) *TextDetector {
	if sampleSize <= 0 {
		sampleSize = DefaultTextSampleSize
	}
	return &TextDetector{sampleSize: sampleSize}
}

// Name returns the detector name.
func (d *TextDetector) Name() string { return TextDetectorName }

// Extent returns the sampled head window.
func (d *TextDetector) Extent() (head, tail int64) {
	return int64(d.sampleSize), 0
}

// Detect yields at most one text format.
func (d *TextDetector) Detect(src ByteSource) ([]Format, error) {
	sample, err := src.Read(0, d.sampleSize)
	if err != nil {
		return nil, err
	}
	truncated := src.Len() > int64(len(sample))

	if f, ok := detectByBOM(sample, truncated); ok {
		return []Format{f}, nil
	}
	if f, ok := detectByRoundTrip(sample, truncated); ok {
		return []Format{f}, nil
	}
	return nil, nil
}

// detectByBOM decodes the content after a byte order mark and accepts the
// encoding when enough of it decodes cleanly.
func detectByBOM(sample []byte, truncated bool) (Format, bool) {
	for _, bom := range byteOrderMarks {
		if !bytes.HasPrefix(sample, bom.mark) {
			continue
		}
		body := sample[len(bom.mark):]
		if truncated {
			body = trimPartialUnit(body, bom.codec)
		}
		res := decodeText(bom.codec, body, false)
		if !res.ok {
			return Format{}, false
		}
		limit := int(float64(len(body)/bom.divisor) * bom.threshold)
		if res.units <= limit {
			return Format{}, false
		}
		f, err := textFormat(bom.codec.label, res.text, len(bom.mark)+res.validBytes)
		return f, err == nil
	}
	return Format{}, false
}

// detectByRoundTrip tries each candidate codec in order. Content with a NUL
// byte is treated as binary and never classified.
func detectByRoundTrip(sample []byte, truncated bool) (Format, bool) {
	if bytes.IndexByte(sample, 0x00) >= 0 {
		return Format{}, false
	}
	for _, codec := range roundTripCodecs {
		body := sample
		if truncated {
			body = trimPartialUnit(body, codec)
		}
		n, text, ok := roundTrip(codec, body)
		if !ok {
			continue
		}
		f, err := textFormat(codec.label, text, n)
		if err != nil {
			continue
		}
		return f, true
	}
	return Format{}, false
}

// decodeResult is the outcome of a fallible decode. units counts code units
// that decoded to a real character and validBytes the bytes they came from.
type decodeResult struct {
	text       string
	units      int
	validBytes int
	ok         bool
}

// decodeText decodes b with codec. In strict mode malformed UTF-8 fails the
// decode; otherwise malformed input becomes U+FFFD, which is excluded from
// the counts.
func decodeText(codec textCodec, b []byte, strict bool) decodeResult {
	if strict && codec.utf8 && !utf8.Valid(b) {
		return decodeResult{}
	}
	text, err := codec.enc.NewDecoder().String(string(b))
	if err != nil {
		return decodeResult{}
	}

	res := decodeResult{text: text, ok: true}
	for _, r := range text {
		if r == utf8.RuneError {
			continue
		}
		size := runeWidth(codec, r)
		res.validBytes += size
		if codec.width == 2 {
			res.units += size / 2
		} else {
			res.units++
		}
	}
	return res
}

// runeWidth returns how many bytes r occupies in codec.
func runeWidth(codec textCodec, r rune) int {
	switch codec.width {
	case 4:
		return 4
	case 2:
		if r > 0xFFFF {
			return 4
		}
		return 2
	default:
		if codec.utf8 {
			return utf8.RuneLen(r)
		}
		return 1
	}
}

// roundTrip decodes b, re-encodes the leading part of the text and checks
// the result against the original bytes. It returns the number of bytes
// reproduced.
func roundTrip(codec textCodec, b []byte) (int, string, bool) {
	res := decodeText(codec, b, codec.strict)
	if !res.ok {
		return 0, "", false
	}
	runes := []rune(res.text)
	prefix := string(runes[:int(float64(len(runes))*roundTripFraction)])
	encoded, err := codec.enc.NewEncoder().String(prefix)
	if err != nil || len(encoded) == 0 {
		return 0, "", false
	}
	if len(encoded) > len(b) || string(b[:len(encoded)]) != encoded {
		return 0, "", false
	}
	return len(encoded), res.text, true
}

// trimPartialUnit drops a trailing code unit or UTF-8 sequence that was
// cut off by the sample boundary.
func trimPartialUnit(b []byte, codec textCodec) []byte {
	if codec.width > 1 {
		return b[:len(b)-len(b)%codec.width]
	}
	if !codec.utf8 {
		return b
	}
	// Look back over at most UTFMax-1 bytes for an incomplete sequence.
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < 0x80 {
			return b
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}

// textFormat classifies decoded text by its markers.
func textFormat(label, text string, confidence int) (Format, error) {
	kind := plainText
	for _, k := range textKinds {
		if strings.Contains(text, k.marker) {
			kind = k
			break
		}
	}
	return NewFormat("text", kind.name, label, confidence, kind.mimeType, kind.extension)
}

var (
	_ Detector = (*TextDetector)(nil)
	_ Windowed = (*TextDetector)(nil)
)

package filesig

import "sync"

// Common MIME types
const (
	MIMETypeTextPlain      = "text/plain"
	MIMETypeTextXML        = "text/xml"
	MIMETypeImageJPEG      = "image/jpeg"
	MIMETypeImagePNG       = "image/png"
	MIMETypeImageGIF       = "image/gif"
	MIMETypeApplicationPDF = "application/pdf"
	MIMETypeApplicationZip = "application/zip"
)

var (
	defaultCatalog     Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in signature table. The returned slice
// is shared and must not be modified; use Clone for a private copy.
func DefaultCatalog() Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = builtinRules()
	})
	return defaultCatalog
}

// Clone returns a copy of the catalog that can be extended freely.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

func builtinRules() Catalog {
	riff := func(form string) Pattern { return Seq(Text("RIFF"), Wild(4), Text(form)) }

	return Catalog{
		// Archives
		{Category: "archive", Name: "zip", MIMEType: MIMETypeApplicationZip, Extension: ".zip", Confidence: 4,
			Checks: At(0, Bytes(0x50, 0x4B, 0x03, 0x04))},
		// Local header plus an end of central directory record without a comment
		{Category: "archive", Name: "zip", MIMEType: MIMETypeApplicationZip, Extension: ".zip", Confidence: 8,
			Checks: []Check{
				{Offset: 0, Pattern: Bytes(0x50, 0x4B, 0x03, 0x04)},
				{Offset: -22, Pattern: Bytes(0x50, 0x4B, 0x05, 0x06)},
			}},
		{Category: "archive", Name: "zip", Version: "empty", MIMEType: MIMETypeApplicationZip, Extension: ".zip", Confidence: 4,
			Checks: At(0, Bytes(0x50, 0x4B, 0x05, 0x06))},
		{Category: "archive", Name: "zip", Version: "spanned", MIMEType: MIMETypeApplicationZip, Extension: ".zip", Confidence: 4,
			Checks: At(0, Bytes(0x50, 0x4B, 0x07, 0x08))},
		{Category: "archive", Name: "7z", MIMEType: "application/x-7z-compressed", Extension: ".7z", Confidence: 6,
			Checks: At(0, Bytes(0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C))},
		{Category: "archive", Name: "cab", MIMEType: "application/vnd.ms-cab-compressed", Extension: ".cab", Confidence: 8,
			Checks: At(0, Bytes(0x4D, 0x53, 0x43, 0x46, 0x00, 0x00, 0x00, 0x00))},
		{Category: "archive", Name: "bzip", Version: "2", MIMEType: "application/x-bzip", Extension: ".bz2", Confidence: 9,
			Checks: At(0, Seq(Text("BZh"), Any(), Bytes(0x31, 0x41, 0x59, 0x26, 0x53, 0x59)))},
		{Category: "archive", Name: "bzip", Version: "1", Extension: ".bz", Confidence: 9,
			Checks: At(0, Seq(Text("BZ0"), Any(), Bytes(0x31, 0x41, 0x59, 0x26, 0x53, 0x59)))},
		{Category: "archive", Name: "gzip", MIMEType: "application/x-gzip", Extension: ".gz", Confidence: 2,
			Checks: At(0, Bytes(0x1F, 0x8B))},
		{Category: "archive", Name: "wim", Extension: ".wim", Confidence: 6,
			Checks: At(0, Seq(Text("MSWIM"), Exact(0x00)))},
		{Category: "archive", Name: "xz", MIMEType: "application/x-xz", Extension: ".xz", Confidence: 6,
			Checks: At(0, Bytes(0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00))},
		{Category: "archive", Name: "rar", Version: "4", MIMEType: "application/x-rar-compressed", Extension: ".rar", Confidence: 7,
			Checks: At(0, Text("Rar!\x1a\x07\x00"))},
		{Category: "archive", Name: "rar", Version: "5", MIMEType: "application/x-rar-compressed", Extension: ".rar", Confidence: 8,
			Checks: At(0, Text("Rar!\x1a\x07\x01\x00"))},
		{Category: "archive", Name: "tar", Version: "posix", MIMEType: "application/x-tar", Extension: ".tar", Confidence: 5,
			Checks: At(257, Text("ustar"))},
		{Category: "archive", Name: "zstd", MIMEType: "application/zstd", Extension: ".zst", Confidence: 4,
			Checks: At(0, Bytes(0x28, 0xB5, 0x2F, 0xFD))},

		// Images
		{Category: "image", Name: "bmp", MIMEType: "image/bmp", Extension: ".bmp", Confidence: 2,
			Checks: At(0, Text("BM"))},
		{Category: "image", Name: "jpeg", MIMEType: MIMETypeImageJPEG, Extension: ".jpg", Confidence: 2,
			Checks: At(0, Bytes(0xFF, 0xD8))},
		// Start of image plus end of image marker
		{Category: "image", Name: "jpeg", MIMEType: MIMETypeImageJPEG, Extension: ".jpg", Confidence: 5,
			Checks: []Check{
				{Offset: 0, Pattern: Bytes(0xFF, 0xD8, 0xFF)},
				{Offset: -2, Pattern: Bytes(0xFF, 0xD9)},
			}},
		{Category: "image", Name: "jpeg2000", MIMEType: "image/jp2", Extension: ".jp2", Confidence: 23,
			Checks: At(0, Bytes(0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A,
				0x00, 0x00, 0x00, 0x14, 0x66, 0x74, 0x79, 0x70, 0x6A, 0x70, 0x32))},
		{Category: "image", Name: "pcx", Version: "2.5", MIMEType: "image/x-pcx", Extension: ".pcx", Confidence: 2,
			Checks: At(0, Bytes(0x0A, 0x00))},
		{Category: "image", Name: "pcx", Version: "2.8", MIMEType: "image/x-pcx", Extension: ".pcx", Confidence: 2,
			Checks: At(0, Seq(Exact(0x0A), OneOf(0x02, 0x03)))},
		{Category: "image", Name: "pcx", Version: "4", MIMEType: "image/x-pcx", Extension: ".pcx", Confidence: 2,
			Checks: At(0, Bytes(0x0A, 0x04))},
		{Category: "image", Name: "pcx", Version: "5", MIMEType: "image/x-pcx", Extension: ".pcx", Confidence: 3,
			Checks: At(0, Bytes(0x0A, 0x05, 0x01))},
		{Category: "image", Name: "png", MIMEType: MIMETypeImagePNG, Extension: ".png", Confidence: 8,
			Checks: At(0, Bytes(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A))},
		{Category: "image", Name: "gif", MIMEType: MIMETypeImageGIF, Extension: ".gif", Confidence: 6,
			Checks: At(0, Text("GIF89a"))},
		{Category: "image", Name: "gif", Version: "87a", MIMEType: MIMETypeImageGIF, Extension: ".gif", Confidence: 6,
			Checks: At(0, Text("GIF87a"))},
		{Category: "image", Name: "portable-bitmap", Version: "ascii", MIMEType: "image/x-portable-bitmap", Extension: ".pbm", Confidence: 2,
			Checks: At(0, Text("P1"))},
		{Category: "image", Name: "portable-graymap", Version: "ascii", MIMEType: "image/x-portable-graymap", Extension: ".pgm", Confidence: 2,
			Checks: At(0, Text("P2"))},
		{Category: "image", Name: "portable-pixmap", Version: "ascii", MIMEType: "image/x-portable-pixmap", Extension: ".ppm", Confidence: 2,
			Checks: At(0, Text("P3"))},
		{Category: "image", Name: "portable-bitmap", Version: "binary", MIMEType: "image/x-portable-bitmap", Extension: ".pbm", Confidence: 2,
			Checks: At(0, Text("P4"))},
		{Category: "image", Name: "portable-graymap", Version: "binary", MIMEType: "image/x-portable-graymap", Extension: ".pgm", Confidence: 2,
			Checks: At(0, Text("P5"))},
		{Category: "image", Name: "portable-pixmap", Version: "binary", MIMEType: "image/x-portable-pixmap", Extension: ".ppm", Confidence: 2,
			Checks: At(0, Text("P6"))},
		{Category: "image", Name: "tiff", Version: "motorola", MIMEType: "image/tiff", Extension: ".tif", Confidence: 4,
			Checks: At(0, Bytes(0x4D, 0x4D, 0x00, 0x2A))},
		{Category: "image", Name: "tiff", Version: "intel", MIMEType: "image/tiff", Extension: ".tif", Confidence: 4,
			Checks: At(0, Bytes(0x49, 0x49, 0x2A, 0x00))},
		{Category: "image", Name: "webp", MIMEType: "image/webp", Extension: ".webp", Confidence: 8,
			Checks: At(0, riff("WEBP"))},
		{Category: "image", Name: "icon", MIMEType: "image/x-icon", Extension: ".ico", Confidence: 4,
			Checks: At(0, Bytes(0x00, 0x00, 0x01, 0x00))},
		{Category: "image", Name: "heic", MIMEType: "image/heic", Extension: ".heic", Confidence: 8,
			Checks: At(4, Seq(Text("ftyp"), OneOf('h', 'm'), OneOf('e', 'i'), OneOf('i', 'f'), OneOf('c', '1')))},
		{Category: "image", Name: "avif", MIMEType: "image/avif", Extension: ".avif", Confidence: 8,
			Checks: At(4, Text("ftypavif"))},

		// Executables
		{Category: "executable", Name: "portable", MIMEType: "application/x-msdownload", Extension: ".exe", Confidence: 2,
			Checks: At(0, Text("MZ"))},
		{Category: "executable", Name: "elf", MIMEType: "application/x-executable", Confidence: 4,
			Checks: At(0, Bytes(0x7F, 'E', 'L', 'F'))},
		{Category: "executable", Name: "mach-o", Version: "64-bit", MIMEType: "application/x-mach-binary", Confidence: 4,
			Checks: At(0, Bytes(0xCF, 0xFA, 0xED, 0xFE))},
		{Category: "executable", Name: "mach-o", Version: "32-bit", MIMEType: "application/x-mach-binary", Confidence: 4,
			Checks: At(0, Bytes(0xCE, 0xFA, 0xED, 0xFE))},

		// Audio
		{Category: "audio", Name: "wave", MIMEType: "audio/x-wav", Extension: ".wav", Confidence: 8,
			Checks: At(0, riff("WAVE"))},
		{Category: "audio", Name: "ogg", MIMEType: "application/ogg", Extension: ".ogg", Confidence: 4,
			Checks: At(0, Text("OggS"))},
		{Category: "audio", Name: "midi", MIMEType: "audio/mid", Extension: ".mid", Confidence: 4,
			Checks: At(0, Text("MThd"))},
		{Category: "audio", Name: "flac", MIMEType: "audio/flac", Extension: ".flac", Confidence: 4,
			Checks: At(0, Text("fLaC"))},
		{Category: "audio", Name: "mp3", Version: "id3", MIMEType: "audio/mpeg", Extension: ".mp3", Confidence: 3,
			Checks: At(0, Text("ID3"))},
		{Category: "audio", Name: "mp3", MIMEType: "audio/mpeg", Extension: ".mp3", Confidence: 2,
			Checks: At(0, Seq(Exact(0xFF), OneOf(0xFB, 0xFA, 0xF3, 0xF2)))},
		{Category: "audio", Name: "aac", Version: "adts", MIMEType: "audio/aac", Extension: ".aac", Confidence: 2,
			Checks: At(0, Seq(Exact(0xFF), OneOf(0xF1, 0xF9)))},
		{Category: "audio", Name: "aac", Version: "adif", MIMEType: "audio/aac", Extension: ".aac", Confidence: 4,
			Checks: At(0, Text("ADIF"))},

		// Video
		{Category: "video", Name: "avi", MIMEType: "video/x-msvideo", Extension: ".avi", Confidence: 8,
			Checks: At(0, riff("AVI "))},
		{Category: "video", Name: "matroska", MIMEType: "video/x-matroska", Extension: ".mkv", Confidence: 4,
			Checks: At(0, Bytes(0x1A, 0x45, 0xDF, 0xA3))},
		{Category: "video", Name: "mp4", MIMEType: "video/mp4", Extension: ".mp4", Confidence: 4,
			Checks: At(4, Text("ftyp"))},
		{Category: "video", Name: "3gpp", MIMEType: "video/3gpp", Extension: ".3gp", Confidence: 6,
			Checks: At(4, Text("ftyp3g"))},
		{Category: "video", Name: "quicktime", MIMEType: "video/quicktime", Extension: ".mov", Confidence: 4,
			Checks: At(4, Text("moov"))},
		{Category: "video", Name: "flv", MIMEType: "video/x-flv", Extension: ".flv", Confidence: 3,
			Checks: At(0, Text("FLV"))},

		// Documents
		{Category: "document", Name: "pdf", MIMEType: MIMETypeApplicationPDF, Extension: ".pdf", Confidence: 5,
			Checks: At(0, Text("%PDF-"))},
		{Category: "document", Name: "rtf", MIMEType: "application/rtf", Extension: ".rtf", Confidence: 5,
			Checks: At(0, Text("{\\rtf"))},
		{Category: "document", Name: "ole-compound", MIMEType: "application/x-ole-storage", Confidence: 8,
			Checks: At(0, Bytes(0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1))},

		// Fonts
		{Category: "font", Name: "woff", MIMEType: "font/woff", Extension: ".woff", Confidence: 4,
			Checks: At(0, Text("wOFF"))},
		{Category: "font", Name: "woff2", MIMEType: "font/woff2", Extension: ".woff2", Confidence: 4,
			Checks: At(0, Text("wOF2"))},
		{Category: "font", Name: "opentype", MIMEType: "font/otf", Extension: ".otf", Confidence: 4,
			Checks: At(0, Text("OTTO"))},
		{Category: "font", Name: "truetype", MIMEType: "font/ttf", Extension: ".ttf", Confidence: 4,
			Checks: At(0, Bytes(0x00, 0x01, 0x00, 0x00))},

		// Text with a fixed prefix
		{Category: "text", Name: "linqpad", MIMEType: MIMETypeTextPlain, Extension: ".linq", Confidence: 13,
			Checks: At(0, Text("<Query Kind=\""))},
	}
}

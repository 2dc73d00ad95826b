package filesig

import (
	"mime"
	"path/filepath"
	"strings"
)

// extensionAliases maps alternative spellings to the extension the catalog
// uses.
var extensionAliases = map[string]string{
	".jpeg": ".jpg",
	".jpe":  ".jpg",
	".tiff": ".tif",
	".midi": ".mid",
	".htm":  ".html",
	".oga":  ".ogg",
	".ogv":  ".ogg",
	".m4a":  ".mp4",
	".m4v":  ".mp4",
	".tgz":  ".gz",
	".dll":  ".exe",
	".jar":  ".zip",
	".docx": ".zip",
	".xlsx": ".zip",
	".pptx": ".zip",
	".doc":  "",
	".xls":  "",
	".ppt":  "",
}

// DefaultExtension returns the extension of f, falling back to one derived
// from its MIME type, and finally ".bin".
func DefaultExtension(f Format) string {
	if f.extension != "" {
		return f.extension
	}
	return GetFileExtensionForMIME(f.mimeType)
}

// GetFileExtensionForMIME returns a suitable file extension for a given MIME type
func GetFileExtensionForMIME(contentType string) string {
	// Remove any parameters from the content type
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)

	switch contentType {
	case "":
		return ".bin"
	case MIMETypeTextPlain:
		return ".txt"
	case MIMETypeTextXML:
		return ".xml"
	case MIMETypeImageJPEG:
		return ".jpg"
	case MIMETypeImagePNG:
		return ".png"
	case MIMETypeImageGIF:
		return ".gif"
	case MIMETypeApplicationPDF:
		return ".pdf"
	case MIMETypeApplicationZip:
		return ".zip"
	case "application/x-msdownload":
		return ".exe"
	}

	// For unknown MIME types, try to get an extension from the mime package
	exts, err := mime.ExtensionsByType(contentType)
	if err == nil && len(exts) > 0 {
		return exts[0]
	}

	return ".bin"
}

// ExtensionMatches reports whether the extension of path agrees with f.
// Paths without an extension never match; formats without an extension
// match anything, since there is nothing to contradict.
func ExtensionMatches(path string, f Format) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if f.extension == "" {
		return true
	}
	if alias, ok := extensionAliases[ext]; ok {
		if alias == "" {
			// Legacy office files are OLE compound documents.
			return f.name == "ole-compound"
		}
		ext = alias
	}
	return ext == strings.ToLower(f.extension)
}

// IsText returns true if f was recognized as text
func IsText(f Format) bool {
	return f.category == "text"
}

// IsArchive returns true if f is an archive or compressed stream
func IsArchive(f Format) bool {
	return f.category == "archive"
}

// IsExecutable returns true if f is a native executable
func IsExecutable(f Format) bool {
	return f.category == "executable"
}

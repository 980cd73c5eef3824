package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies an image container recognised from its leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	default:
		return "unknown"
	}
}

// MediaType returns the EPUB manifest media type for k.
func (k Kind) MediaType() string {
	switch k {
	case KindJPEG:
		return "image/jpeg"
	case KindPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

var (
	jpegSig = []byte{0xff, 0xd8, 0xff}
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
)

var errShortHeader = errors.New("header too short")

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < len(jpegSig) {
		return KindUnknown, errShortHeader
	}
	switch {
	case bytes.HasPrefix(header, jpegSig):
		return KindJPEG, nil
	case bytes.HasPrefix(header, pngSig):
		return KindPNG, nil
	}
	return KindUnknown, nil
}

// SniffFile reads the head of the file at path to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to 8 bytes from r and determines its type. Files
// shorter than a JPEG signature report errShortHeader.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, len(pngSig))
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return KindUnknown, errShortHeader
		}
		return KindUnknown, err
	}
	return DetectHeader(header[:n])
}

// KindFromExt maps a file extension to the Kind it conventionally holds.
func KindFromExt(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return KindJPEG
	case ".png":
		return KindPNG
	default:
		return KindUnknown
	}
}

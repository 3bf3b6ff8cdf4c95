package extractor

import "bytes"

var (
	jpegSOI = []byte{0xFF, 0xD8, 0xFF}
	jpegEOI = []byte{0xFF, 0xD9}
)

// maxJPEGBytes caps a single candidate image so a corrupt marker cannot
// pull in the rest of the file.
const maxJPEGBytes = 8 << 20

// scanJPEGStreams locates embedded JPEG images in raw PDF bytes. PDFs store
// DCTDecode image streams as verbatim JPEG data, so scanning for SOI/EOI
// marker pairs recovers them without a full object-graph parse. Best-effort
// by design: a missed or truncated image is simply not OCR'd.
func scanJPEGStreams(data []byte, max int) [][]byte {
	var images [][]byte
	offset := 0

	for len(images) < max {
		start := bytes.Index(data[offset:], jpegSOI)
		if start < 0 {
			break
		}
		start += offset

		limit := start + maxJPEGBytes
		if limit > len(data) {
			limit = len(data)
		}
		end := bytes.Index(data[start:limit], jpegEOI)
		if end < 0 {
			offset = start + len(jpegSOI)
			continue
		}
		end += start + len(jpegEOI)

		images = append(images, data[start:end])
		offset = end
	}

	return images
}

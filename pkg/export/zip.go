package export

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/galaxygen/pkg/raster"
)

// compressionLevel trades archive size for speed. PNG data barely
// deflates, so a low level is enough.
const compressionLevel = 3

// WriteZip encodes every entry as PNG and writes the archive to w.
// Every entry carries the modified timestamp, so archives of the same
// layers written with the same timestamp are byte-identical.
func WriteZip(w io.Writer, entries []Entry, modified time.Time) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})

	for _, e := range entries {
		data, err := raster.EncodePNG(e.Image)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}
		hdr := &zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

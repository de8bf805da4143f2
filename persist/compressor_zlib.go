package persist

import (
	"bytes"
	"compress/zlib"
	"io"
)

// ZLibCompressor compresses with zlib at the given level; the zero value uses zlib.DefaultCompression.
type ZLibCompressor struct {
	Level int
}

func (c ZLibCompressor) Compress(dec []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}

	buf := new(bytes.Buffer)

	zw, err := zlib.NewWriterLevel(buf, level)
	if err != nil {
		return nil, err
	}

	if _, err := zw.Write(dec); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (ZLibCompressor) Decompress(cmp []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(cmp))
	if err != nil {
		return nil, err
	}

	defer zr.Close()

	return io.ReadAll(zr)
}

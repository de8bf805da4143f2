package persist

// Compressor shrinks values before they are encrypted and written.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Decompress([]byte) ([]byte, error)
}

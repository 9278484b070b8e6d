package service

// FixedRandomSource is a RandomSource that repeats a fixed byte sequence.
// It exists for deterministic tests; production code must use
// NewCryptoRandomSource.
type FixedRandomSource struct {
	seq []byte
	pos int
}

// NewFixedRandomSource creates a FixedRandomSource cycling over seq.
func NewFixedRandomSource(seq []byte) *FixedRandomSource {
	return &FixedRandomSource{seq: seq}
}

// Read fills p by cycling over the fixed sequence.
func (f *FixedRandomSource) Read(p []byte) error {
	for i := range p {
		p[i] = f.seq[f.pos%len(f.seq)]
		f.pos++
	}
	return nil
}

package archive

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"

	"github.com/Fuabioo/zipread/internal/errors"
)

// Digest is a BLAKE3-256 hash of an entry's decompressed content.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Sum hashes the decompressed content of e. The stored CRC-32 is verified as
// a side effect of reading to EOF.
func (a *Archive) Sum(e *Entry) (Digest, error) {
	var d Digest

	rc, err := a.Open(e)
	if err != nil {
		return d, err
	}
	defer rc.Close()

	h := blake3.New()
	if _, err := io.Copy(h, rc); err != nil {
		return d, errors.FromIO(err)
	}
	copy(d[:], h.Sum(nil))

	return d, nil
}

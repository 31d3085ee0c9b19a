// Package fs provides file-level helpers for dataset arrangement: content
// digests and an atomic staging directory.
package fs

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// MD5File returns the lowercase hex md5 digest of a file's content. The
// distribution publishes md5 digests for its archives, so md5 it is.
func MD5File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// XXHash returns the hex xxHash digest of content. Used as a cheap page
// fingerprint in the catalog index.
func XXHash(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

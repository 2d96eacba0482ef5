package storagefile

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// checksumChunkSize keeps memory flat while hashing multi-gigabyte archives.
const checksumChunkSize = 64 * 1024

// digest streams r through both hash functions at once, optionally teeing the
// bytes into extra writers (the upload path passes the destination file here
// so the upload is hashed in a single read).
func digest(r io.Reader, extra ...io.Writer) (md5sum, sha256sum string, n int64, err error) {
	md5Hash := md5.New()
	shaHash := sha256.New()

	writers := append([]io.Writer{md5Hash, shaHash}, extra...)
	buf := make([]byte, checksumChunkSize)

	n, err = io.CopyBuffer(io.MultiWriter(writers...), r, buf)
	if err != nil {
		return "", "", n, err
	}

	return hex.EncodeToString(md5Hash.Sum(nil)), hex.EncodeToString(shaHash.Sum(nil)), n, nil
}

// digestFile hashes the file at path.
func digestFile(path string) (md5sum, sha256sum string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	md5sum, sha256sum, _, err = digest(f)
	return md5sum, sha256sum, err
}

package patterns

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/spf13/afero"
)

// HashSizeLimit is the largest file size, in bytes, that is ever read for
// content-digest matching. Larger files never match by digest.
const HashSizeLimit int64 = 20_000_000

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// algorithmsByHexLen maps a hex digest length to its algorithm.
var algorithmsByHexLen = map[int]Algorithm{
	32:  MD5,
	40:  SHA1,
	64:  SHA256,
	128: SHA512,
}

func newHash(a Algorithm) hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

// digestSet groups lowercase hex digests by algorithm.
type digestSet map[Algorithm]map[string]bool

func (d digestSet) size() int {
	n := 0
	for _, set := range d {
		n += len(set)
	}
	return n
}

// algorithms returns the algorithms in use in a stable order.
func (d digestSet) algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(d))
	for a := range d {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// compileDigests validates hex digests and infers each one's algorithm from
// its length.
func compileDigests(raw []string) (digestSet, error) {
	d := digestSet{}
	for _, r := range raw {
		digest := strings.ToLower(strings.TrimSpace(r))
		if _, err := hex.DecodeString(digest); err != nil {
			return nil, fmt.Errorf("%w: %q is not hex", ErrInvalidDigest, r)
		}
		algo, ok := algorithmsByHexLen[len(digest)]
		if !ok {
			return nil, fmt.Errorf("%w: %q has unsupported length %d", ErrInvalidDigest, r, len(digest))
		}
		if d[algo] == nil {
			d[algo] = map[string]bool{}
		}
		d[algo][digest] = true
	}
	return d, nil
}

// MatchRemoveHash digests the file at path and reports whether any digest is
// in the removal set. Files larger than HashSizeLimit are never read. The
// file is read once, feeding every algorithm in use.
func (s *Set) MatchRemoveHash(fsys afero.Fs, path string, size int64) (bool, string, error) {
	if !s.HasDigests() || size > HashSizeLimit {
		return false, "", nil
	}

	algos := s.removeHash.algorithms()
	hashers := make([]hash.Hash, len(algos))
	writers := make([]io.Writer, len(algos))
	for i, a := range algos {
		hashers[i] = newHash(a)
		writers[i] = hashers[i]
	}

	f, err := fsys.Open(path)
	if err != nil {
		return false, "", fmt.Errorf("open %s for hashing: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(io.MultiWriter(writers...), io.LimitReader(f, HashSizeLimit+1)); err != nil {
		return false, "", fmt.Errorf("hash %s: %w", path, err)
	}

	for i, a := range algos {
		digest := hex.EncodeToString(hashers[i].Sum(nil))
		if s.removeHash[a][digest] {
			return true, digest, nil
		}
	}
	return false, "", nil
}

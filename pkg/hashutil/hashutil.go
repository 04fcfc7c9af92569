package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256 = "sha256"
	HashAlgoBLAKE3 = "blake3"
)

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
// Supported algorithms: "sha256" and "blake3".
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		return hashBytesSha256(data), nil
	case HashAlgoBLAKE3:
		return hashBytesBlake3(data), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// NewStreamingHasher returns an incremental hash.Hash for the specified algorithm.
// Callers feed it bytes as they stream past and read the final digest with Sum(nil),
// so multi-gigabyte inputs are hashed without buffering.
func NewStreamingHasher(algo HashAlgo) (hash.Hash, error) {
	switch algo {
	case HashAlgoSHA256:
		return sha256.New(), nil
	case HashAlgoBLAKE3:
		return blake3.New(32, nil), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// SumToHex encodes a finished digest as lowercase hex.
func SumToHex(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

func hashBytesSha256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hashBytesBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

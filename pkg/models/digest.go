package models

// Algorithm identifies a digest algorithm
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA1   Algorithm = "sha1"
	AlgorithmMD5    Algorithm = "md5"
)

// Algorithms lists the supported algorithms in match-priority order
var Algorithms = []Algorithm{AlgorithmSHA256, AlgorithmSHA1, AlgorithmMD5}

// HexLength returns the length of a hex-encoded digest for the algorithm
func (a Algorithm) HexLength() int {
	switch a {
	case AlgorithmSHA256:
		return 64
	case AlgorithmSHA1:
		return 40
	case AlgorithmMD5:
		return 32
	default:
		return 0
	}
}

// DisplayName returns the conventional upper-case name (SHA-256, SHA-1, MD5)
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmSHA256:
		return "SHA-256"
	case AlgorithmSHA1:
		return "SHA-1"
	case AlgorithmMD5:
		return "MD5"
	default:
		return string(a)
	}
}

// AlgorithmForLength guesses the algorithm from a hex digest length
func AlgorithmForLength(n int) (Algorithm, bool) {
	for _, a := range Algorithms {
		if a.HexLength() == n {
			return a, true
		}
	}
	return "", false
}

// DigestSet holds the lowercase hex digests of one file's full content
type DigestSet struct {
	SHA256 string `json:"sha256"`
	SHA1   string `json:"sha1"`
	MD5    string `json:"md5"`
}

// Get returns the digest for the given algorithm
func (d DigestSet) Get(a Algorithm) string {
	switch a {
	case AlgorithmSHA256:
		return d.SHA256
	case AlgorithmSHA1:
		return d.SHA1
	case AlgorithmMD5:
		return d.MD5
	default:
		return ""
	}
}

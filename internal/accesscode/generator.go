package accesscode

import (
	"crypto/rand"
	"math/big"
)

// codeLength is the number of characters in a generated access code.
const codeLength = 7

// codeAlphabet is the lowercase base-36 alphabet of generated codes.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Generator produces access code strings.
type Generator interface {
	Generate() string
}

// NewGenerator returns the default code generator. Codes are short base-36
// tokens drawn from crypto/rand; they are bearer credentials for paid access,
// so a non-cryptographic source is not acceptable here.
func NewGenerator() Generator {
	return randomGenerator{}
}

type randomGenerator struct{}

func (randomGenerator) Generate() string {
	max := big.NewInt(int64(len(codeAlphabet)))

	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; there is no meaningful fallback for a credential.
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}

	return string(buf)
}

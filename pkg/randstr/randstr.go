package randstr

import (
	"crypto/rand"
	"math/big"
)

type Generator struct {
	letterBytes []byte
}

func New(letterBytes []byte) *Generator {
	return &Generator{letterBytes: letterBytes}
}

func (g Generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(g.letterBytes)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the platform source is broken
			panic(err)
		}
		b[i] = g.letterBytes[n.Int64()]
	}

	return string(b)
}

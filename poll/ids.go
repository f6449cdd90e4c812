package poll

import "crypto/rand"

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 7
)

// NewID returns a short random identifier for polls and questions. IDs make
// no global uniqueness guarantee; seven base-36 characters keep collision
// odds negligible at classroom scale.
func NewID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		panic("poll: reading random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

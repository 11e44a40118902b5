package memhost

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// nonceLength matches the ten character tokens CMS hosts commonly emit.
const nonceLength = 10

// Nonces signs action names with a shared secret. Tokens do not expire.
type Nonces struct {
	secret []byte
}

// NewNonces builds a signer over secret.
func NewNonces(secret []byte) *Nonces {
	return &Nonces{secret: append([]byte(nil), secret...)}
}

// Issue returns the token for action.
func (n *Nonces) Issue(action string) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write([]byte(action))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLength]
}

// Verify checks token against action in constant time.
func (n *Nonces) Verify(action, token string) bool {
	if len(token) != nonceLength {
		return false
	}
	return hmac.Equal([]byte(n.Issue(action)), []byte(token))
}

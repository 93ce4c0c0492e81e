package auth

import (
	"bytes"
	"encoding/gob"

	"github.com/gorilla/sessions"

	"membersonly/crypto"
)

// encryptedSerializer gob-encodes session values and encrypts the
// result, so Redis never holds session data in the clear.
type encryptedSerializer struct {
	key []byte
}

func newEncryptedSerializer(key []byte) encryptedSerializer {
	return encryptedSerializer{key: key}
}

func (s encryptedSerializer) Serialize(ss *sessions.Session) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(ss.Values); err != nil {
		return nil, err
	}
	return crypto.Encrypt(buf.Bytes(), s.key)
}

func (s encryptedSerializer) Deserialize(d []byte, ss *sessions.Session) error {
	plain, err := crypto.Decrypt(d, s.key)
	if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(plain)).Decode(&ss.Values)
}

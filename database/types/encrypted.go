// Copyright (C) 2025 Attendee Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
package databasetypes

import (
	"crypto/cipher"
	"crypto/rand"
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	aeadMutex  sync.RWMutex
	columnAEAD cipher.AEAD
)

// SetEncryptionKey installs the 32 byte key used for encrypted credential
// columns. It has to be called before any encrypted column is read or written.
func SetEncryptionKey(key []byte) error {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("could not build column cipher: %w", err)
	}

	aeadMutex.Lock()
	columnAEAD = aead
	aeadMutex.Unlock()
	return nil
}

// EncryptionKeyFromEnv reads CREDENTIALS_ENCRYPTION_KEY (base64, 32 bytes)
// and installs it as the column encryption key.
func EncryptionKeyFromEnv() error {
	raw := os.Getenv("CREDENTIALS_ENCRYPTION_KEY")
	if raw == "" {
		return errors.New("CREDENTIALS_ENCRYPTION_KEY is not set")
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("CREDENTIALS_ENCRYPTION_KEY is not valid base64: %w", err)
	}

	return SetEncryptionKey(key)
}

func getAEAD() (cipher.AEAD, error) {
	aeadMutex.RLock()
	defer aeadMutex.RUnlock()
	if columnAEAD == nil {
		return nil, errors.New("column encryption key is not set")
	}
	return columnAEAD, nil
}

// the stored format is base64(nonce || ciphertext). the nonce is random per
// write, so the same plaintext never produces the same column value twice.
func encryptColumn(plaintext []byte) (string, error) {
	aead, err := getAEAD()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptColumn(stored string) ([]byte, error) {
	aead, err := getAEAD()
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, fmt.Errorf("encrypted column is not valid base64: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return nil, errors.New("encrypted column is too short")
	}

	plaintext, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("could not decrypt column: %w", err)
	}
	return plaintext, nil
}

func scanString(value any) (string, error) {
	switch v := value.(type) {
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("unexpected type %T for encrypted column", value)
	}
}

// EncryptedString behaves like a plain string in memory but is stored
// encrypted at rest in a text column.
type EncryptedString string

func (e EncryptedString) Value() (driver.Value, error) {
	if e == "" {
		return "", nil
	}
	return encryptColumn([]byte(e))
}

func (e *EncryptedString) Scan(value any) error {
	if value == nil {
		*e = ""
		return nil
	}

	stored, err := scanString(value)
	if err != nil {
		return err
	}
	if stored == "" {
		*e = ""
		return nil
	}

	plaintext, err := decryptColumn(stored)
	if err != nil {
		return err
	}
	*e = EncryptedString(plaintext)
	return nil
}

// EncryptedJSONB is a JSON object stored encrypted at rest in a text column.
type EncryptedJSONB map[string]any

func (e EncryptedJSONB) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}

	plaintext, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return encryptColumn(plaintext)
}

func (e *EncryptedJSONB) Scan(value any) error {
	if value == nil {
		*e = nil
		return nil
	}

	stored, err := scanString(value)
	if err != nil {
		return err
	}
	if stored == "" {
		*e = nil
		return nil
	}

	plaintext, err := decryptColumn(stored)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, e)
}

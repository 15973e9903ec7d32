package release

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// ErrChecksumMismatch is returned when a file does not match its digest.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// FileSHA256 returns the hex SHA256 digest of a file.
func FileSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySHA256 checks filePath against the expected hex digest.
func VerifySHA256(filePath, expected string) error {
	actual, err := FileSHA256(filePath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}
	// Compare checksums (case-insensitive)
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w:\nactual:   %s\nexpected: %s", ErrChecksumMismatch, actual, expected)
	}
	return nil
}

// LoadKeyring reads an armored or binary OpenPGP keyring.
func LoadKeyring(keyringPath string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		// Try reading as non-armored keyring
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// VerifySignature checks a detached signature over filePath. The
// signature may be armored or binary.
func VerifySignature(filePath, signaturePath, keyringPath string) error {
	keyring, err := LoadKeyring(keyringPath)
	if err != nil {
		return err
	}

	signature, err := os.ReadFile(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	// Verify signature (try armored first)
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, bytes.NewReader(signature), nil)
	if err != nil {
		// Try non-armored signature
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind file: %w", seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, file, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

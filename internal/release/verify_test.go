package release

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"        //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"  //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/packet" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// signingFixture holds a throwaway key pair and signed file on disk.
type signingFixture struct {
	dir     string
	file    string
	entity  *openpgp.Entity
	keyring string
}

func newSigningFixture(t *testing.T, armored bool) *signingFixture {
	t.Helper()

	config := &packet.Config{Algorithm: packet.PubKeyAlgoEdDSA}
	entity, err := openpgp.NewEntity("Release Signer", "test", "release@example.com", config)
	if err != nil {
		t.Fatalf("failed to create entity: %v", err)
	}

	dir := t.TempDir()
	f := &signingFixture{
		dir:    dir,
		file:   filepath.Join(dir, "stockfish-ubuntu-x86-64-avx2.tar"),
		entity: entity,
	}
	if err := os.WriteFile(f.file, []byte("release archive"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	var buf bytes.Buffer
	if armored {
		w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		if err != nil {
			t.Fatalf("failed to create armor writer: %v", err)
		}
		if err := entity.Serialize(w); err != nil {
			t.Fatalf("failed to serialize key: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("failed to close armor writer: %v", err)
		}
	} else if err := entity.Serialize(&buf); err != nil {
		t.Fatalf("failed to serialize key: %v", err)
	}

	f.keyring = filepath.Join(dir, "keyring.gpg")
	if err := os.WriteFile(f.keyring, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write keyring: %v", err)
	}
	return f
}

// sign writes a detached signature over content and returns its path.
func (f *signingFixture) sign(t *testing.T, signer *openpgp.Entity, content string, armored bool) string {
	t.Helper()

	var buf bytes.Buffer
	var err error
	if armored {
		err = openpgp.ArmoredDetachSign(&buf, signer, strings.NewReader(content), nil)
	} else {
		err = openpgp.DetachSign(&buf, signer, strings.NewReader(content), nil)
	}
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	path := filepath.Join(f.dir, "sig")
	if armored {
		path += ".asc"
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write signature: %v", err)
	}
	return path
}

func TestVerifySignature(t *testing.T) {
	tests := []struct {
		name          string
		armoredKey    bool
		armoredSig    bool
		signedContent string
		otherSigner   bool
		wantErr       bool
	}{
		{name: "armored key armored sig", armoredKey: true, armoredSig: true, signedContent: "release archive"},
		{name: "armored key binary sig", armoredKey: true, armoredSig: false, signedContent: "release archive"},
		{name: "binary key armored sig", armoredKey: false, armoredSig: true, signedContent: "release archive"},
		{name: "tampered content", armoredKey: true, armoredSig: true, signedContent: "other archive", wantErr: true},
		{name: "unknown signer", armoredKey: true, armoredSig: true, signedContent: "release archive", otherSigner: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSigningFixture(t, tt.armoredKey)

			signer := f.entity
			if tt.otherSigner {
				signer = newSigningFixture(t, true).entity
			}
			sigPath := f.sign(t, signer, tt.signedContent, tt.armoredSig)

			err := VerifySignature(f.file, sigPath, f.keyring)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifySignature() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadKeyringErrors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.gpg")
	if err := os.WriteFile(garbage, []byte("not a key"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.gpg")},
		{"garbage", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadKeyring(tt.path); err == nil {
				t.Error("LoadKeyring() expected error")
			}
		})
	}
}

func TestVerifySHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.tar")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	const helloSHA = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	tests := []struct {
		name     string
		expected string
		wantErr  error
	}{
		{"match", helloSHA, nil},
		{"match uppercase", strings.ToUpper(helloSHA), nil},
		{"mismatch", strings.Repeat("0", 64), ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySHA256(path, tt.expected)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("VerifySHA256() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifySHA256() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := VerifySHA256(filepath.Join(dir, "missing"), helloSHA); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := FileSHA256(path)
	if err != nil {
		t.Fatalf("FileSHA256() error = %v", err)
	}
	if want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"; got != want {
		t.Errorf("FileSHA256() = %s, want %s", got, want)
	}
}

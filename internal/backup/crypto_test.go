package backup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")

	content := []byte("sqlite format 3\x00 plus some payload bytes")
	if err := os.WriteFile(src, content, 0600); err != nil {
		t.Fatal(err)
	}

	if err := EncryptFile(src, enc, "correct horse"); err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}

	encData, err := os.ReadFile(enc)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(encData, []byte("payload")) {
		t.Error("ciphertext contains plaintext")
	}
	if len(encData) <= saltLen+nonceLen {
		t.Errorf("encrypted file only %d bytes", len(encData))
	}

	if err := DecryptFile(enc, dec, "correct horse"); err != nil {
		t.Fatalf("DecryptFile() error = %v", err)
	}
	restored, err := os.ReadFile(dec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restored, content) {
		t.Error("restored content differs from original")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret data"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := EncryptFile(src, enc, "right"); err != nil {
		t.Fatal(err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Error("DecryptFile() with wrong passphrase succeeded")
	}
}

func TestDecryptTamperedFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret data"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := EncryptFile(src, enc, "pass"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(enc)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(enc, data, 0600); err != nil {
		t.Fatal(err)
	}

	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "pass"); err == nil {
		t.Error("DecryptFile() on tampered file succeeded")
	}
}

func TestDecryptTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	enc := filepath.Join(dir, "short.enc")
	if err := os.WriteFile(enc, []byte("tiny"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := DecryptFile(enc, filepath.Join(dir, "out.db"), "pass"); err == nil {
		t.Error("DecryptFile() on truncated file succeeded")
	}
}

func TestEncryptSaltsDiffer(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	if err := os.WriteFile(src, []byte("same input"), 0600); err != nil {
		t.Fatal(err)
	}

	encA := filepath.Join(dir, "a.enc")
	encB := filepath.Join(dir, "b.enc")
	if err := EncryptFile(src, encA, "pass"); err != nil {
		t.Fatal(err)
	}
	if err := EncryptFile(src, encB, "pass"); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(encA)
	b, _ := os.ReadFile(encB)
	if bytes.Equal(a[:saltLen], b[:saltLen]) {
		t.Error("two archives share the same salt")
	}
}

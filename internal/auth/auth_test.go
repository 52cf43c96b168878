package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("shepard-commander")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := VerifyPassword(hash, "shepard-commander")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}
	ok, err = VerifyPassword(hash, "wrong-password")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestSignerIssueAndVerify(t *testing.T) {
	dir := t.TempDir()
	signer, err := NewSigner(filepath.Join(dir, "secret.bin"))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	tok := signer.Issue(42, time.Hour)
	id, err := signer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected player id 42, got %d", id)
	}
}

func TestSignerRejectsExpired(t *testing.T) {
	dir := t.TempDir()
	signer, err := NewSigner(filepath.Join(dir, "secret.bin"))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	tok := signer.Issue(7, -time.Second)
	if _, err := signer.Verify(tok); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSignerRejectsTampered(t *testing.T) {
	dir := t.TempDir()
	signer, err := NewSigner(filepath.Join(dir, "secret.bin"))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	tok := signer.Issue(7, time.Hour)
	tampered := tok[:len(tok)-1] + "x"
	if _, err := signer.Verify(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestSignerPersistsSecretAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.bin")

	s1, err := NewSigner(path)
	if err != nil {
		t.Fatalf("new signer 1: %v", err)
	}
	tok := s1.Issue(99, time.Hour)

	s2, err := NewSigner(path)
	if err != nil {
		t.Fatalf("new signer 2: %v", err)
	}
	id, err := s2.Verify(tok)
	if err != nil {
		t.Fatalf("verify with reloaded secret: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected player id 99, got %d", id)
	}
}

package util

import "testing"

func TestHashUserKey(t *testing.T) {
	id := "user-12345"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestChecksumDiffersPerContent(t *testing.T) {
	a := Checksum([]byte("one"))
	b := Checksum([]byte("two"))
	if a == b {
		t.Fatalf("distinct content must produce distinct checksums")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(a))
	}
}

func TestSanitizeFileName(t *testing.T) {
	if _, err := SanitizeFileName("../../etc/passwd"); err == nil {
		t.Fatalf("traversal must be rejected")
	}
	if _, err := SanitizeFileName("   "); err == nil {
		t.Fatalf("blank name must be rejected")
	}
	got, err := SanitizeFileName("a/b\\c.pdf")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "a_b_c.pdf" {
		t.Fatalf("unexpected sanitized name: %s", got)
	}
}

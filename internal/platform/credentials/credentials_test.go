package credentials

import "testing"

func TestHashVerify_RoundTrip(t *testing.T) {
	h, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if h == "secret1" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !Verify("secret1", h) {
		t.Fatalf("expected Verify(p, Hash(p)) == true")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if Verify("secret2", h) {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestVerify_MalformedHash_IsFalseNotPanic(t *testing.T) {
	if Verify("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("expected false for malformed hash")
	}
	if Verify("secret1", "") {
		t.Fatalf("expected false for empty hash")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h1, _ := Hash("secret1")
	h2, _ := Hash("secret1")
	if h1 == h2 {
		t.Fatalf("expected distinct hashes per call (random salt)")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash("   "); err != ErrEmptyPassword {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

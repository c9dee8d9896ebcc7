package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "secret1" {
		t.Fatal("hash must never equal the plaintext")
	}

	if err := CheckPassword(hash, "secret1"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}

	if err := CheckPassword(hash, "secret2"); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestHashPassword_SaltRandomness(t *testing.T) {
	h1, err := HashPassword("secret1")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	h2, err := HashPassword("secret1")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}

	if err := CheckPassword(h1, "secret1"); err != nil {
		t.Errorf("first hash rejected original password: %v", err)
	}

	if err := CheckPassword(h2, "secret1"); err != nil {
		t.Errorf("second hash rejected original password: %v", err)
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// a malformed stored hash is an internal failure, not "wrong password"
	if err := CheckPassword("not-a-bcrypt-hash", "secret1"); err == nil {
		t.Fatal("malformed hash must not verify")
	}
}

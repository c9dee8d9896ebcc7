package security

import "golang.org/x/crypto/bcrypt"

// bcrypt tops out at 72 bytes of input; the register request caps the
// password length accordingly.
const hashCost = bcrypt.DefaultCost

// HashPassword hashes a plaintext password with bcrypt. Each call salts
// independently, so equal passwords produce different hashes.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash with a login attempt.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

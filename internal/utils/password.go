package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account credential with bcrypt at the
// configured cost.  The cost comes from BCRYPT_COST so tests can run
// at the minimum while production uses a real work factor.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time; callers treat a mismatch the same
// as an unknown username.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

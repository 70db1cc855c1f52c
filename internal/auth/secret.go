package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret bcrypt-hashes a login code or PIN.
func HashSecret(s string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CompareSecret(hash, s string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(s)) == nil
}

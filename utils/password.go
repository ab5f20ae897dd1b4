package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt cost used for new hashes
const PasswordCost = 10

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// HashPassword returns a bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash with a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

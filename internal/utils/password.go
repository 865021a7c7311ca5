package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword is called only at the two legitimate write sites (user
// creation and admin password reset); there is no save-time hashing hook.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

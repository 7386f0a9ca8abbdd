package domain

// User is the stored authentication record. The login path only consults it
// when the store-backed credential verifier is enabled.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

package auth

// Claims representa la información del usuario staff extraída del token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

package ports

// SessionIssuer signs and validates session tokens (RS256 JWT).
type SessionIssuer interface {
	IssueSessionToken(userID, email string, expiresInSeconds int64) (string, error)
	ValidateSessionToken(tokenString string) (userID, email string, err error)
}

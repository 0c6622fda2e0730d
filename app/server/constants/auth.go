package constants

const (
	// TokenType is returned with every access token.
	TokenType = "bearer"

	// ContextKeySubject holds the verified token subject, ContextKeyActor the
	// resolved *models.User.
	ContextKeySubject = "subject"
	ContextKeyActor   = "actor"
)

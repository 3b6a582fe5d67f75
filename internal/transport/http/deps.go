package http

import (
	"github.com/go-signup-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-signup-api/internal/infrastructure/jwt"
	"github.com/go-signup-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	SessionRepo      *dynamo.SessionRepo
	VerificationRepo *dynamo.VerificationRepo
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
}

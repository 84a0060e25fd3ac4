package internal

import (
	"bitwise74/social-api/aws"
	"bitwise74/social-api/internal/auth"
	"bitwise74/social-api/internal/service"
	"bitwise74/social-api/internal/store"
)

type Deps struct {
	Store    *store.Store
	Auth     *auth.Authenticator
	JobQueue *service.JobQueue
	Mailer   service.Mailer
	Images   service.ImageGenerator
	S3       *aws.S3Client
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// PostStore is the slice of the store the image job mutates. The job may
// run long after the request that created the post; it works on its own
// store handle, never one borrowed from a request.
type PostStore interface {
	UpdatePostImage(postID, url string) error
}

// NewRegistrationEmailJob builds the deferred welcome mail sent after a
// successful registration. If delivery fails the queue logs and drops
// it; re-registering is blocked by the taken email, so a lost mail needs
// an operator to resolve. Accepted limitation.
func NewRegistrationEmailJob(m Mailer, email, confirmURL string) *Job {
	return &Job{
		Kind: "registration_email",
		Run: func(ctx context.Context) error {
			body := fmt.Sprintf(
				"Hi %s! You have successfully signed up.\n\n"+
					"Please confirm your email by clicking on the following link: %s",
				email, confirmURL,
			)

			return m.Send(email, "Successfully signed up", body)
		},
	}
}

// NewImageAttachJob builds the generate-image-then-attach job for a post
// created with a prompt. It always ends in one of two terminal states:
// post updated plus a completion mail, or a failure mail. Never silent.
func NewImageAttachJob(img ImageGenerator, m Mailer, posts PostStore, email, postID, postURL, prompt string) *Job {
	return &Job{
		Kind: "image_attach",
		Run: func(ctx context.Context) error {
			outputURL, err := img.Generate(ctx, prompt)
			if err != nil {
				// Generation failures are terminal here. The user hears
				// about it by mail and the remaining steps are skipped.
				if errors.Is(err, ErrAPIResponse) || errors.Is(err, ErrResponseDecode) {
					zap.L().Warn("Image generation failed",
						zap.Error(err),
						zap.String("postID", postID),
					)

					return m.Send(email, "Image generation failed",
						fmt.Sprintf("Hi %s! Unfortunately there was an error generating an image for your post %s.", email, postURL))
				}

				return err
			}

			if err := posts.UpdatePostImage(postID, outputURL); err != nil {
				sendErr := m.Send(email, "Image generation failed",
					fmt.Sprintf("Hi %s! Unfortunately there was an error generating an image for your post %s.", email, postURL))
				if sendErr != nil {
					return fmt.Errorf("failed to update post %s, %v, and to notify user, %w", postID, err, sendErr)
				}

				return fmt.Errorf("failed to update post %s, %w", postID, err)
			}

			return m.Send(email, "Image generation completed",
				fmt.Sprintf("Hi %s! Your image has been generated and added to your post.\n\nPlease click on the following link to view it: %s", email, postURL))
		},
	}
}

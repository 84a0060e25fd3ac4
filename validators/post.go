package validators

import "errors"

var (
	ErrPostBodyEmpty   = errors.New("post body can't be empty")
	ErrPostBodyTooLong = errors.New("post body is too long")
	ErrPromptTooLong   = errors.New("image prompt is too long")
	ErrCommentEmpty    = errors.New("comment body can't be empty")
	ErrCommentTooLong  = errors.New("comment body is too long")
)

func PostValidator(body, prompt string) error {
	if body == "" {
		return ErrPostBodyEmpty
	}

	if len(body) > 4096 {
		return ErrPostBodyTooLong
	}

	if len(prompt) > 512 {
		return ErrPromptTooLong
	}

	return nil
}

func CommentValidator(body string) error {
	if body == "" {
		return ErrCommentEmpty
	}

	if len(body) > 2048 {
		return ErrCommentTooLong
	}

	return nil
}

package posts

// present reports whether every value is non-empty. Whitespace counts as a
// value, as it does for a required form field.
func present(values ...string) bool {
	for _, value := range values {
		if value == "" {
			return false
		}
	}
	return true
}

// Validate checks the create form.
func (d Draft) Validate() error {
	if !present(d.Title, d.Body, d.UserID) {
		return ValidationError(OpCreatePost, MessageAllFieldsRequired)
	}
	return nil
}

// Validate checks the update form. A missing post id is reported on its own
// so the form can say which field blocks the request.
func (d UpdateDraft) Validate() error {
	if !present(d.PostID) {
		return ValidationError(OpUpdatePost, MessagePostIDRequired)
	}
	if !present(d.Title, d.Body, d.UserID) {
		return ValidationError(OpUpdatePost, MessageAllFieldsRequired)
	}
	return nil
}

// Validate checks the delete form.
func (d DeleteDraft) Validate() error {
	if !present(d.PostID) {
		return ValidationError(OpDeletePost, MessagePostIDRequired)
	}
	return nil
}

// Validate checks the comment form.
func (d CommentDraft) Validate() error {
	if !present(d.Body, d.PostID) {
		return ValidationError(OpCreateComment, MessageAllFieldsRequired)
	}
	return nil
}

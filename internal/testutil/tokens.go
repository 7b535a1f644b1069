package testutil

// FixedTokens issues the same forgery token for every form.
//
// It satisfies schemaform.TokenSource; golden transcripts and binding tests
// can then spell the token out literally.
type FixedTokens struct {
	token string
}

// NewFixedTokens returns a token source for token. An empty token falls
// back to "test-csrf-token".
func NewFixedTokens(token string) *FixedTokens {
	if token == "" {
		token = "test-csrf-token"
	}
	return &FixedTokens{token: token}
}

// Token returns the fixed token regardless of form and secret.
func (f *FixedTokens) Token(form, secret string) string {
	return f.token
}

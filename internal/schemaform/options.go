package schemaform

import (
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/roach88/formtest/internal/store"
)

// Sequence hands out submission sequence numbers.
type Sequence interface {
	Next() int64
}

// TokenSource issues forgery tokens for a form class and secret.
type TokenSource interface {
	Token(form, secret string) string
}

// Option configures the environment forms are built in.
type Option func(*env)

// WithStore sets the store saved forms are written to.
func WithStore(s *store.Store) Option {
	return func(e *env) { e.store = s }
}

// WithSequence sets the submission sequence source.
func WithSequence(seq Sequence) Option {
	return func(e *env) { e.seq = seq }
}

// WithTokens sets the forgery token source.
func WithTokens(ts TokenSource) Option {
	return func(e *env) { e.tokens = ts }
}

type env struct {
	store    *store.Store
	seq      Sequence
	tokens   TokenSource
	validate *validator.Validate
}

func newEnv(opts []Option) *env {
	e := &env{
		seq:      &counter{},
		tokens:   uuidTokens{},
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type counter struct {
	n atomic.Int64
}

func (c *counter) Next() int64 {
	return c.n.Add(1)
}

// tokenNamespace scopes forgery tokens.
var tokenNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("formtest/csrf"))

// uuidTokens derives a stable token from the secret and form class.
type uuidTokens struct{}

func (uuidTokens) Token(form, secret string) string {
	return uuid.NewSHA1(tokenNamespace, []byte(secret+"\x00"+form)).String()
}

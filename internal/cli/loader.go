package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/formtest/internal/dataset"
	"github.com/roach88/formtest/internal/form"
	"github.com/roach88/formtest/internal/schemaform"
	"github.com/roach88/formtest/internal/store"
	"github.com/roach88/formtest/internal/tester"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeNotFound       = "E002" // Path not found
	ErrCodeCatalog        = "E003" // Form catalog invalid
	ErrCodeDataset        = "E004" // Dataset document invalid
	ErrCodeStore          = "E005" // Database could not be opened
	ErrCodeForm           = "E006" // Form class missing or unknown
	ErrCodeAssertions     = "E007" // One or more assertions failed
	ErrCodeUnsupported    = "E008" // Unsupported dataset format
	ErrCodeInvalidOptions = "E009" // Invalid flag value
)

// Setup is everything a command needs to build a tester: the catalog, a
// registry holding one factory per definition, and the optional store
// saved forms go to.
type Setup struct {
	Catalog  *schemaform.Catalog
	Registry *form.Registry
	Store    *store.Store
	Options  []schemaform.Option
}

// Close releases the store, if one was opened.
func (s *Setup) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// LoadSetup reads the catalog at formsPath and registers its definitions.
// When dbPath is set, the database is opened (created if missing) and
// every registered form saves into it.
func LoadSetup(formsPath, dbPath string) (*Setup, error) {
	if formsPath == "" {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "no form catalog given (use --forms)"}
	}
	if _, err := os.Stat(formsPath); errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("form catalog not found: %s", formsPath)}
	}

	catalog, err := schemaform.LoadCatalog(formsPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCatalog, Message: "invalid form catalog", Err: err}
	}

	s := &Setup{Catalog: catalog, Registry: form.NewRegistry()}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStore, Message: "failed to open database", Err: err}
		}
		s.Store = st
		s.Options = append(s.Options, schemaform.WithStore(st))
	}

	if err := catalog.Register(s.Registry, s.Options...); err != nil {
		_ = s.Close()
		return nil, &LoadError{Code: ErrCodeCatalog, Message: "failed to register forms", Err: err}
	}
	return s, nil
}

// SelectForm makes class the form under test, overriding the document's
// formClass.
func (s *Setup) SelectForm(t *tester.Tester, class string) error {
	factory, ok := s.Registry.Lookup(class)
	if !ok {
		return &LoadError{Code: ErrCodeForm, Message: fmt.Sprintf("form class [%s] is not in the catalog", class)}
	}
	cfg := t.Configuration()
	f, err := factory(cfg.Options, cfg.Arguments)
	if err != nil {
		return &LoadError{Code: ErrCodeForm, Message: fmt.Sprintf("failed to build form %s", class), Err: err}
	}
	t.SetForm(f)
	return nil
}

// LoadError is a setup failure with a CLI error code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// errorCode maps an error from any layer to a CLI error code.
func errorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var de *dataset.LoadError
	if errors.As(err, &de) {
		switch de.Code {
		case dataset.ErrCodeFileNotFound:
			return ErrCodeNotFound
		case dataset.ErrCodeUnsupportedFormat:
			return ErrCodeUnsupported
		default:
			return ErrCodeDataset
		}
	}
	if tester.IsNoForm(err) || tester.IsUnknownFormClass(err) {
		return ErrCodeForm
	}
	return ErrCodeGeneric
}

package tester

import (
	"fmt"
	"strings"

	"github.com/roach88/formtest/internal/dataset"
	"github.com/roach88/formtest/internal/form"
	"github.com/roach88/formtest/internal/reconcile"
	"github.com/roach88/formtest/internal/report"
)

// Which selects the collections Run processes.
type Which string

const (
	Both Which = "both"
	Pass Which = "pass"
	Fail Which = "fail"
)

// ParseWhich accepts pass/valid, fail/invalid and both or "".
func ParseWhich(s string) (Which, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return Both, nil
	case "pass", "valid":
		return Pass, nil
	case "fail", "invalid":
		return Fail, nil
	}
	return "", fmt.Errorf("unknown dataset selection %q (want pass, fail or both)", s)
}

// label names a collection in flushed diagnostics.
func (w Which) label() string {
	if w == Pass {
		return "valid"
	}
	return "invalid"
}

// Run binds every selected dataset to the form and reports the outcome.
// Both runs the pass collection, then the fail collection.
//
// Setup failures (no form, unknown class) and bind errors abort the run and
// are returned. Expectation mismatches are reported, never returned. Save
// failures are reported and the run continues.
func (t *Tester) Run(r report.Reporter, which Which) error {
	switch which {
	case Both, "":
		if err := t.runSet(r, Pass); err != nil {
			return err
		}
		return t.runSet(r, Fail)
	case Pass, Fail:
		return t.runSet(r, which)
	}
	return fmt.Errorf("unknown dataset selection %q", which)
}

func (t *Tester) runSet(r report.Reporter, set Which) error {
	sets := t.pass
	if set == Fail {
		sets = t.fail
	}
	if len(sets) == 0 {
		return nil
	}

	r.Diag(fmt.Sprintf("%s datasets", set.label()))

	for _, ds := range sets {
		if err := t.runDataset(r, set, ds); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tester) runDataset(r report.Reporter, set Which, ds dataset.Dataset) error {
	f, err := t.Form(nil, nil)
	if err != nil {
		return err
	}
	if ds.HasOverrides() {
		if f, err = t.Form(ds.Options, ds.Arguments); err != nil {
			return err
		}
	}

	values := ds.Sanitized()
	if f.ForgeryProtected() {
		field, token := f.ForgeryToken()
		values[field] = token
	}

	f.Reset()
	if err := f.Bind(values); err != nil {
		return fmt.Errorf("%s set[%s]: %w", set.label(), ds.Name, err)
	}

	valid := f.IsValid()
	t.logger.Debug("dataset bound",
		"set", set.label(),
		"dataset", ds.Name,
		"index", ds.Index,
		"valid", valid,
		"errors", f.Errors().Len())

	if set == Pass {
		t.checkValid(r, f, ds, valid)
	} else {
		t.checkInvalid(r, f, ds, valid)
	}
	return nil
}

func (t *Tester) checkValid(r report.Reporter, f form.Form, ds dataset.Dataset, valid bool) {
	msg := fmt.Sprintf("form is valid for dataset [%s]", ds.Name)

	if !valid {
		r.Fail(msg)
		if t.cfg.Verbose {
			reconcile.Walk(f.Errors(), nil, t.messages)
			t.messages.Flush(Pass.label(), ds.Name, true, r.Info)
		}
		return
	}

	r.Is(valid, true, msg)

	if !t.cfg.WithSave {
		return
	}
	if err := save(f); err != nil {
		t.logger.Warn("form save failed", "dataset", ds.Name, "error", err)
		r.Fail(fmt.Sprintf("form saving successful for dataset [%s]", ds.Name))
		if t.cfg.Verbose {
			r.Info(err.Error())
		}
	}
}

func (t *Tester) checkInvalid(r report.Reporter, f form.Form, ds dataset.Dataset, valid bool) {
	msg := fmt.Sprintf("form is invalid for dataset [%s]", ds.Name)
	if valid {
		r.Fail(msg)
	} else {
		r.Pass(msg)
	}

	if t.cfg.Verbose {
		remaining := reconcile.Walk(f.Errors(), ds.Expected, t.messages)
		t.messages.ExpectedNotRaised(remaining)
	}

	t.messages.Flush(Fail.label(), ds.Name, false, func(block string) {
		report.Error(r, block)
	})
}

// save persists f, turning a panic into an error.
func save(f form.Form) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("save panicked: %v", rec)
		}
	}()
	return f.Save()
}

package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

// Compile parses the CUE catalog sources into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess). The CUE schemas carry
// the numeric invariants, so Decode failures here surface constraint
// violations as well as shape mismatches.
//
// Display strings are NFC-normalized so that catalog output is byte-stable
// regardless of how the source files were encoded.
func Compile(unitsSrc, skinsSrc string) (*Catalog, error) {
	ctx := cuecontext.New()

	units, err := compileUnits(ctx, unitsSrc)
	if err != nil {
		return nil, err
	}
	skins, err := compileSkins(ctx, skinsSrc)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		units:     units,
		skins:     skins,
		unitIndex: make(map[string]int, len(units)),
		skinIndex: make(map[string]int, len(skins)),
	}
	for i, u := range units {
		if _, dup := c.unitIndex[u.ID]; dup {
			return nil, &CompileError{Field: "units", Message: fmt.Sprintf("duplicate unit id %q", u.ID)}
		}
		c.unitIndex[u.ID] = i
	}
	for i, s := range skins {
		if _, dup := c.skinIndex[s.ID]; dup {
			return nil, &CompileError{Field: "skins", Message: fmt.Sprintf("duplicate skin id %q", s.ID)}
		}
		c.skinIndex[s.ID] = i
	}
	return c, nil
}

func compileUnits(ctx *cue.Context, src string) ([]Unit, error) {
	v := ctx.CompileString(src, cue.Filename("units.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("units"))
	if !list.Exists() {
		return nil, &CompileError{Field: "units", Message: "units list is required"}
	}
	if err := list.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var units []Unit
	if err := list.Decode(&units); err != nil {
		return nil, formatCUEError(err)
	}
	if len(units) == 0 {
		return nil, &CompileError{Field: "units", Message: "at least one unit is required"}
	}
	for i := range units {
		units[i].Name = norm.NFC.String(units[i].Name)
		units[i].Description = norm.NFC.String(units[i].Description)
	}
	return units, nil
}

func compileSkins(ctx *cue.Context, src string) ([]Skin, error) {
	v := ctx.CompileString(src, cue.Filename("skins.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("skins"))
	if !list.Exists() {
		return nil, &CompileError{Field: "skins", Message: "skins list is required"}
	}
	if err := list.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var skins []Skin
	if err := list.Decode(&skins); err != nil {
		return nil, formatCUEError(err)
	}
	for i := range skins {
		skins[i].Name = norm.NFC.String(skins[i].Name)
		skins[i].Description = norm.NFC.String(skins[i].Description)
	}
	return skins, nil
}

// CompileError reports a catalog source problem with position info when the
// CUE evaluator provides it.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "catalog",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{
		Field:   "catalog",
		Message: firstErr.Error(),
	}
}

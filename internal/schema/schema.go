package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var source []byte

// definitions maps store collections to their CUE definition.
// Collections without an entry are not validated.
var definitions = map[string]string{
	"games":        "#Game",
	"consequences": "#Consequence",
	"communities":  "#Community",
	"users":        "#User",
}

// distinct lists field pairs that must hold different ids.
var distinct = map[string][][2]string{
	"games":        {{"player1Id", "player2Id"}},
	"consequences": {{"playerId", "targetId"}},
}

// ValidationError reports a document that does not satisfy its definition.
type ValidationError struct {
	Collection string
	Details    string
	Err        error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Collection, e.Details)
}

// Unwrap returns the underlying CUE error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validator checks document bodies against the embedded CUE definitions.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Validate
// serializes on an internal mutex.
type Validator struct {
	mu   sync.Mutex
	ctx  *cue.Context
	defs map[string]cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(source, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	defs := make(map[string]cue.Value, len(definitions))
	for collection, name := range definitions {
		def := root.LookupPath(cue.ParsePath(name))
		if !def.Exists() {
			return nil, fmt.Errorf("compile schema: definition %s not found", name)
		}
		defs[collection] = def
	}

	return &Validator{ctx: ctx, defs: defs}, nil
}

// MustNew is like New but panics on error. The schema is embedded, so an
// error here is a build defect.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks a JSON document body. It has the signature of
// docstore.Validator.
func (v *Validator) Validate(collection string, data []byte) error {
	def, ok := v.defs[collection]
	if !ok {
		return nil
	}

	expr, err := cuejson.Extract(collection, data)
	if err != nil {
		return &ValidationError{Collection: collection, Details: err.Error(), Err: err}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &ValidationError{Collection: collection, Details: cueerrors.Details(err, nil), Err: err}
	}
	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Collection: collection, Details: cueerrors.Details(err, nil), Err: err}
	}
	return checkDistinct(collection, unified)
}

// checkDistinct rejects documents whose paired id fields are equal.
func checkDistinct(collection string, doc cue.Value) error {
	for _, pair := range distinct[collection] {
		a, err := doc.LookupPath(cue.ParsePath(pair[0])).String()
		if err != nil {
			return &ValidationError{Collection: collection, Details: err.Error(), Err: err}
		}
		b, err := doc.LookupPath(cue.ParsePath(pair[1])).String()
		if err != nil {
			return &ValidationError{Collection: collection, Details: err.Error(), Err: err}
		}
		if a == b {
			err := fmt.Errorf("%s and %s must differ, both are %q", pair[0], pair[1], a)
			return &ValidationError{Collection: collection, Details: err.Error(), Err: err}
		}
	}
	return nil
}

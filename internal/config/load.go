package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes for policy file loading.
const (
	ErrCodeNotFound    = "E005" // Policy file not found
	ErrCodeBuildFailed = "E006" // CUE syntax or evaluation error
	ErrCodeSchema      = "E201" // File does not satisfy #Policy
	ErrCodeInvalid     = "E202" // Merged configuration fails Validate
)

// LoadError represents an error that occurred while loading a policy file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads a CUE policy file and applies it over base.
//
// The file is unified with the embedded #Policy schema, so unknown fields,
// out-of-range numbers and unknown enum values are rejected with a position.
// Fields the file leaves out keep their value from base.
func LoadFile(path string, base GlobalConfig) (GlobalConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return GlobalConfig{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("policy file not found: %s", path)}
	}
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("reading policy file: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return GlobalConfig{}, fmt.Errorf("compiling policy schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return GlobalConfig{}, cueLoadError(ErrCodeBuildFailed, err)
	}

	policy := schema.LookupPath(cue.ParsePath("#Policy")).Unify(file)
	if err := policy.Validate(cue.Concrete(true)); err != nil {
		return GlobalConfig{}, cueLoadError(ErrCodeSchema, err)
	}

	raw, err := policy.MarshalJSON()
	if err != nil {
		return GlobalConfig{}, cueLoadError(ErrCodeSchema, err)
	}
	cfg := base
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return GlobalConfig{}, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return GlobalConfig{}, &LoadError{Code: ErrCodeInvalid, Message: err.Error()}
	}
	return cfg, nil
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

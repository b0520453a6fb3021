package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ExtensionState carries per-module flags on a document. Each module owns
// one scope; the pile flags live under "item-piles".
type ExtensionState map[string]json.RawMessage

// Set replaces the flags of scope with v. A nil v unsets the scope.
func (e *ExtensionState) Set(scope string, v any) error {
	if v == nil {
		delete(*e, scope)
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s flags: %w", scope, err)
	}
	if *e == nil {
		*e = make(ExtensionState, 1)
	}
	(*e)[scope] = raw
	return nil
}

// Get decodes the flags of scope into out. Unset and null scopes report
// false and leave out untouched, so callers can pre-fill defaults.
func (e ExtensionState) Get(scope string, out any) (bool, error) {
	raw := bytes.TrimSpace(e[scope])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decoding %s flags: %w", scope, err)
	}
	return true, nil
}

// Clone copies every scope.
func (e ExtensionState) Clone() ExtensionState {
	if e == nil {
		return nil
	}
	out := make(ExtensionState, len(e))
	for scope, raw := range e {
		out[scope] = bytes.Clone(raw)
	}
	return out
}

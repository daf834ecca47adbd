// Package composer reads the two documents patchstatus cross-references:
// the project manifest (composer.json) and the lock file (composer.lock).
//
// Decoding is done with easyjson's lexer rather than encoding/json so that
// object key order survives: installer-path rules are applied in declaration
// order and report rows follow the manifest's patch order.
package composer

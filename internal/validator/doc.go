// Package validator checks a parsed workspace for identifier uniqueness,
// dangling references, and dynamic view steps without a matching
// relationship.
//
// All checks are pure functions of the tree. Every call builds its own
// working state, so a Validator is safe for concurrent use.
//
// Reachability for dynamic steps is strict: a step a -> b is accepted only
// when the model declares a relationship from a to b. Reverse edges,
// transitive chains, and parent/child containment never count.
package validator

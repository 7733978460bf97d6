// Package domain defines the core types for the c4dsl architecture model tools.
//
// This package contains the immutable value tree produced by the DSL parser
// and consumed by the validator, formatter, and analysis packages.
//
// # Core Types
//
// Workspace is the root of every parsed tree. It owns exactly one Model and
// one Views block.
//
// Element represents a person, software system, container, or component.
// Elements nest through their Children block to arbitrary depth.
//
// Relationship is a directed edge between two element identifiers. It may be
// declared at model level or inside any element's children, and all
// relationships form one workspace-wide edge set.
//
// View is a projection of the model (system landscape, system context,
// container, component, dynamic, deployment). Dynamic views carry ordered
// DynamicSteps.
//
// # Results
//
// ParseError and ValidationResult describe validation outcomes in one uniform
// shape, whether the problem was syntactic or semantic.
//
// # Design Principles
//
// - Immutable value objects; nothing in this package mutates a tree after construction
// - Closed kinds modelled as typed string enums with explicit validity checks
// - No I/O and no external dependencies
package domain

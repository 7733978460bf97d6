// Package parser turns C4 architecture DSL source text into a domain.Workspace.
//
// The grammar is line oriented: a newline ends a statement, and blocks are
// delimited with braces. Comments use //, /* */, or a leading #.
//
// Parse either returns a complete tree or a *SyntaxError carrying a 1-based
// line and column. It never returns a partial tree.
package parser

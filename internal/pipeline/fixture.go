package pipeline

import _ "embed"

// fixtureDocument is the built-in demo document used when a caller
// submits empty input. Useful for smoke-testing an installation without
// preparing a document first.
//
//go:embed fixture/apispec.txt
var fixtureDocument string

// FixtureDocument returns the built-in default document
func FixtureDocument() string {
	return fixtureDocument
}

// Package wikitxt converts rendered encyclopedia articles into flat,
// linearized plain text for dataset use. It keeps section structure, renders
// lists and tables as bullet lines, and repairs label/value pairs whose value
// was lost in markup.
//
// This package contains domain types, interfaces and pure text helpers
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, http/).
package wikitxt

// Package assetdoc reads and writes company profile documents: Markdown
// files holding one fenced JSON payload per section.
//
// # Document Format
//
// A profile document looks like this:
//
//	# qonto - Company Profile
//	Generated: 18/10/2026
//
//	## Company Description
//
//	```json
//	{
//	  "type": "company_description",
//	  "data": { "tagline": "..." }
//	}
//	```
//
//	---
//
//	## Key Numbers
//	...
//
// Each "## " heading starts a section. The heading is the record title and
// the JSON block carries its type tag and data. Sections without a JSON
// block are skipped silently; sections whose block does not parse are
// skipped and reported as Diagnostic values. Parsing never fails as a
// whole.
//
// # Quick Start
//
//	records, diags := assetdoc.Parse(text)
//	for _, d := range diags {
//	    log.Println(d)
//	}
//
//	records[0].Data, _ = assetdoc.Set(records[0].Data, "quickFacts.0.label", "Founded")
//
//	out, err := assetdoc.Generator{Title: "Acme - Company Profile"}.Generate(records)
//
// # Paths
//
// Get, Lookup, Set and SetStrict address nested data with dot-separated
// paths such as "rounds.0.leadInvestors". When Set creates a missing
// container it looks one segment ahead: a numeric segment yields an array,
// anything else an object.
//
// # Forms
//
// Field values come from a flat editor form. Collect and ApplyTo decode
// each one by Shape (scalar, csv, lines, boolean) and assign it at its
// path, so the last field wins on duplicate paths. ValidateFields checks
// raw values against FieldRule constraints first.
//
// # Editing a Stored Document
//
// Service wraps a Store (file, memory or S3 in internal/storage) with
// load, edit and save operations that serialize writers:
//
//	svc := assetdoc.NewService(store, assetdoc.WithTimeout(10*time.Second))
//	rec, err := svc.ApplyFields(ctx, 0, fields, nil)
//
// # Typed Payloads
//
// Records keep data as a generic JSON tree. Decode gives the typed view of
// the known asset types (see Kinds) and Encode converts it back.
package assetdoc

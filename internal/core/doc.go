// Package core provides the business logic for product catalog imports.
//
// An import turns the rows of an uploaded spreadsheet into products grouped
// by category. It is independent of transport and storage: the HTTP server
// and the CLI both drive it through [Service], and persistence goes through
// the [RecordStore] and [ArtifactSink] interfaces.
//
// # Pipeline
//
//  1. A [SheetSource] parses the file into [RawRow] values, header excluded.
//  2. [RowValidator] checks every row and logs each failed rule.
//  3. [BatchUpserter] writes valid rows in chunks of [DefaultChunkSize],
//     resolving categories through a per-run [CategoryResolver]. Existing
//     products, matched by name and category, are updated one by one; new
//     ones are created with one bulk call per chunk.
//  4. [Importer.Execute] stores a non-empty [ErrorLog] as an artifact and
//     reports [StatusCompletedWithErrors], or [StatusSuccess] otherwise.
//
// Only an unreadable file aborts a run ([ErrInvalidSheet]). Every other
// failure becomes a line in the error log and the run continues.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Codes are grouped as FILE (upload), IMP (import admission), DB (store),
// and ART (error log artifacts).
package core

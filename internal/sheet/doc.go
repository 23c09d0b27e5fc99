// Package sheet parses uploaded catalog files into core.RawRow values.
//
// Two formats are supported. XLSX workbooks keep their cell types, so a
// number typed into Excel arrives as float64 or int64 and a number typed as
// text arrives as a string. CSV files carry no types; cells that read as
// numeric literals are converted with core.NumericLiteral.
//
// Both sources read the four columns of core.ImportColumns, skip the header
// row, and drop rows whose four cells are all blank.
package sheet

// Package cli implements the touchbase command line.
//
// Every command opens the database named by --db (or $TOUCHBASE_DB), wires
// the engine, roster and display-name cache over it, and tears the session
// down when it returns. Output is text by default or a JSON envelope with
// --format json:
//
//	{"status":"ok","data":{...}}
//	{"status":"error","error":{"code":"FORBIDDEN","message":"..."}}
//
// Rejected game actions exit with status 1; command errors exit with 2.
package cli

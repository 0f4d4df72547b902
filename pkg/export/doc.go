/*
Package export turns a shape tree into the file tree of a runnable front-end project.

All targets share one Pipeline: snapshot the input, flatten groups away, sanitize
ids, map every leaf to an Element carrying a closed Rule, then execute the target's
embedded templates. A Target only provides literal data (folders, templates and a
few template functions), so adding a framework never touches the mapping logic.

Exports are all-or-nothing. Any failure yields a nil *FileSet and an error that
matches either ErrScaffold or ErrExport.
*/
package export

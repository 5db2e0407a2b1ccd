/*
Package config loads a drfsim cluster description from a YAML document into
the plain argument types engine.New already accepts. It is a thin,
validating translation layer: it never reaches into engine internals, and a
caller who builds NodeSpec/AppSpec/Submission/Tuning values programmatically
can skip this package entirely.

Validation happens here, before engine.New is ever called, so a malformed
file is rejected by the file format, not by the simulation core: dimension
mismatches and negative tuning/schedule values are reported as
ErrDimensionMismatch / ErrOutOfRange.
*/
package config

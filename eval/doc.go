// Package eval evaluates expr-lang expressions against a resolved
// configuration.
//
// The expression environment is the unwrapped configuration, so top
// level keys are variables and nested keys are reached with member
// access:
//
//	server.port > 1024 && getbytes("server.buffer") >= 65536
//
// Keys that are not identifiers are available through getpath.  The
// functions bound in every expression are
//
//	getpath(path)     the unwrapped value at a path expression, nil if absent
//	haspath(path)     whether a non-null value exists at path
//	getduration(path) the duration at path, honoring unit suffixes
//	getbytes(path)    the byte size at path, honoring unit suffixes
//	origin(path)      the origin description of the value at path
//	getenv(name)      an environment variable
package eval

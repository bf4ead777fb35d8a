// Package token splits configuration documents into tokens.
//
// [NewTokenizer] produces tokens lazily with [Tokenizer.Next]; [Tokenize]
// collects a whole document.  The same tokenizer serves the relaxed
// syntax and strict JSON; in JSON mode constructs outside JSON come back
// as problem tokens or are rejected by the parser.
package token

// Package header parses and formats HTTP-adjacent header values: media
// types (Content-Type), RFC 5988 Link headers and RFC 7231 product lists
// (User-Agent, Server).
//
// Every type here is an immutable value. Parsers return sentinel errors
// that can be checked with errors.Is.
package header

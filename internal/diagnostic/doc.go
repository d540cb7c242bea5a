// Package diagnostic collects structured errors, warnings and notes found
// while validating a mapper configuration, so that every problem in a file
// can be reported at once instead of failing on the first one.
package diagnostic

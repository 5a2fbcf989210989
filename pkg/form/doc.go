// Package form provides the form contract and the field tree the enhancer
// walks.
package form

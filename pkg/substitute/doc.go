// Package substitute expands the placeholders allowed in configuration
// values: %%name%% reads the bound object through its GetName accessor and
// [text](target) becomes a sanitised link. Maps and slices are walked
// recursively and returned as new values.
package substitute

// Package testsupport holds fixtures shared by package tests.
package testsupport

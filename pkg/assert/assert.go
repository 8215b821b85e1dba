// Package assert holds the project's single invariant-checking helper,
// used at internal call sites where a violation indicates a bug in
// this module rather than bad caller input.
package assert

// That panics with message if condition is false.
func That(condition bool, message string) {
	if !condition {
		panic(message)
	}
}

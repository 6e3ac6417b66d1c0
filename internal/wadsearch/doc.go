// Package wadsearch resolves short, user-supplied asset names against the
// configured search directories.
//
// Resolution walks each root for a category in priority order, scores every
// file with the additive weighting in Score, and returns the first root's
// admissible candidates ranked best first. Ambiguity (more than one
// candidate) is a valid outcome, not an error; callers that need exactly one
// file disambiguate downstream.
package wadsearch

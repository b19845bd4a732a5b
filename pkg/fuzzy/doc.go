// Package fuzzy scores the similarity of college names and picks the best
// candidate from a pool of names.
//
// Scores are integers from 0 to 100. The default scorer is token-order
// invariant: both strings are lowercased, stripped of punctuation and
// non-ASCII characters, split into tokens and the tokens sorted before the
// comparison, so "ABC College of Engineering" and "College of Engineering
// ABC" score 100.
//
// When several candidates share the highest score, the first one in
// candidate order wins. Callers that need deterministic output must
// therefore present candidates in a deterministic order.
package fuzzy

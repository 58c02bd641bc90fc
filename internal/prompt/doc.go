// Package prompt builds the natural-language prompt sent to the image model
// for a specialist record.
//
// The builder is pure: it reads name, specialty and gender from the record,
// substitutes placeholders for anything missing, and composes a single
// string from four parts:
//
//  1. a base phrase naming the gender and specialty
//  2. a styling descriptor chosen by a StylePolicy
//  3. a specialty clause looked up in an injected table
//  4. a fixed quality suffix
//
// The default StylePolicy, NameFragmentPolicy, guesses a cultural descriptor
// by substring-matching the name against a list of fragments. That guess is
// a heuristic for visual variety only. It is not a reliable classifier of
// anyone's background and can encode bias, so the fragment list is data
// supplied by the caller and NeutralPolicy switches it off entirely.
package prompt

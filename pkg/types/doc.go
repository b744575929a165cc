// Package types defines the entity types, store contract, and standard
// errors for the Pornhwa persistence layer. Consumers depend on this
// package only; concrete backends live under internal/.
package types

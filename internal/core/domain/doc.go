// Package domain contains the core business entities and errors for askdocs.
// It has no dependencies on adapters or infrastructure.
package domain

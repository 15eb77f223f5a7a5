// Package services contains the core application logic: the index build
// pipeline, retrieval, and grounded answer generation. Services depend
// only on domain types and ports, never on concrete adapters.
package services

// Package vectorindex holds VectorIndex implementations and the shared
// scoring helpers they use.
//
// The memory index is exact brute-force cosine search. The qdrant index
// delegates storage and search to a Qdrant server over REST.
package vectorindex

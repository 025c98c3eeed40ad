// Package classifier assigns a strength label to a feature vector with a
// pretrained k-nearest-neighbour model.
//
// The model artifact is loaded once at start-up (Load or LoadDefault) into an
// immutable *Classifier that callers pass explicitly to every classification
// site. A load failure is a precondition error: a service without a model
// must not start. Classify never mutates the Classifier and is safe for any
// number of concurrent callers.
//
// # Vote and tie-break
//
// The k samples nearest to the query (Euclidean distance over min-max scaled
// features, equidistant samples ordered by their index in the artifact) each
// cast one vote. The label with most votes wins. When votes tie, the tied
// label owning the single nearest neighbour wins; if that distance ties as
// well, the lowest ordinal label (weak < medium < strong) wins.
package classifier

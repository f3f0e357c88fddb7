// Package eigenface implements Eigenfaces (PCA) face matching.
//
// A gallery of M equally sized grayscale face vectors is reduced to an
// (M-1)-dimensional eigenspace. Every gallery face and every probe is projected
// into that space and the probe is matched to the gallery face with the
// smallest Euclidean distance between weight vectors.
//
// The covariance matrix is never built in pixel space. The M×M Gram matrix of
// the centered gallery is decomposed instead and its eigenvectors are lifted
// back to pixel space, which is equivalent for the top M-1 directions and
// keeps the cost at O(M³ + M²N).
//
// Recognize rebuilds the whole model on every call and keeps no state between
// calls. Callers that match many probes against the same gallery should call
// Train once and use Model.Match.
package eigenface

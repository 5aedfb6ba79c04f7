// Package design computes biquad coefficients from musical parameters.
//
// Designs follow the RBJ Audio EQ Cookbook and return
// [biquad.Coefficients] normalized so that a0 = 1. Invalid frequencies or
// sample rates yield a passthrough section instead of unstable coefficients.
package design

// Package degrade turns a clean rasterized sample into a degraded,
// binarized training image.
//
// # Pipeline
//
// [Pipeline.Apply] runs a fixed sequence of stages:
//
//  1. Noise: stochastic corruption selected by a [NoiseMode] (salt-and-pepper
//     by default; gaussian, poisson and speckle are alternatives).
//  2. Blur: a fractional box blur ([BoxBlur], radius 0.25 by default).
//  3. Composite: flatten onto a white canvas using the image's own alpha,
//     producing 8-bit luminance ([Composite]).
//  4. Binarize: a global threshold ([Binarize]) or a Gaussian-weighted local
//     mean threshold ([BinarizeAdaptive]).
//
// Every stage returns a new image and never modifies its input, so stages can
// be exercised in isolation. Randomness comes only from the *rand.Rand passed
// to the noise stage; a fixed seed reproduces a sample exactly.
//
//	p := degrade.Default()
//	out, err := p.Apply(img, degrade.NewRand(42))
package degrade

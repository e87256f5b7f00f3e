// Package io writes generated samples to disk.
//
// Samples are named after the word and variant that produced them:
//
//	<dir>/<word><suffix>.<ext>
//
// Encoding goes through [EncodeImage] so the CLI, the HTTP server and the
// cache agree on formats. JPEG (quality 95) is the default; PNG is lossless
// and keeps the binarized pixels exact.
package io

// Package raster turns markup documents into pixel images.
//
// A [Rasterizer] is opened once per run with a fixed viewport and released
// when the run ends. Two backends exist:
//
//   - [Browser] drives a headless Chromium over the DevTools protocol
//     (go-rod), loads the HTML form of the document from a data URI and
//     screenshots the viewport. This is the reference backend: perspective
//     and 3D rotations are honored.
//   - [RSVG] pipes the standalone SVG form through rsvg-convert. It needs no
//     browser but ignores perspective, rotateX and rotateY.
//
// [Cached] wraps either backend with a [cache.Cache] keyed by backend,
// viewport and markup.
//
// Use [With] to guarantee the backend is released, including on failure:
//
//	err := raster.With(ctx, opts, func(r raster.Rasterizer) error {
//	    img, err := r.Rasterize(ctx, doc)
//	    ...
//	})
package raster

// Package pkg provides the libraries behind synthtext, a generator of
// degraded text images for OCR training.
//
// # Overview
//
// A sample is produced in four steps:
//
//	word
//	  ↓
//	[shape]    reorder right-to-left runs into display order
//	  ↓
//	[markup]   HTML/SVG document styled by a variant
//	  ↓
//	[raster]   headless browser (or rsvg-convert) screenshot, optionally cached
//	  ↓
//	[degrade]  noise → blur → white background → binarize
//	  ↓
//	[io]       <word><suffix>.jpeg, recorded by [manifest]
//
// [pipeline] drives these steps over words x variants; [config] loads the
// TOML configuration; [server] renders samples over HTTP.
//
// # Quick Start
//
//	err := raster.With(ctx, raster.Options{Viewport: markup.DefaultViewport()},
//	    func(r raster.Rasterizer) error {
//	        _, err := pipeline.NewRunner(r, nil).Generate(ctx, pipeline.DefaultPlan())
//	        return err
//	    })
package pkg

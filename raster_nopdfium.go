//go:build nopdfium

package pdfdocx

func pdfiumRasterizer() Rasterizer {
	return unavailableRasterizer{reason: "pdfium support is not compiled in (built with -tags nopdfium), use the fitz backend"}
}

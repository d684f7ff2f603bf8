package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// Renderer rasterizes PDF pages to PNG via MuPDF. It is the bridge
// between the native-text path and optical recognition for scanned
// documents.
type Renderer struct {
	dpi float64
}

// NewRenderer creates a page renderer rendering at the given DPI.
func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = 150
	}
	return &Renderer{dpi: float64(dpi)}
}

// RenderPages converts up to maxPages document pages into PNG images.
func (r *Renderer) RenderPages(ctx context.Context, fileBytes []byte, maxPages int) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("opening document for rendering: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}

	images := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}
		images = append(images, buf.Bytes())
	}
	return images, nil
}

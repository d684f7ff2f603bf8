package port

import "context"

// PageRenderer converts structured-document pages into raster images
// for optical recognition. Implementations return one encoded image per
// page, up to maxPages.
type PageRenderer interface {
	RenderPages(ctx context.Context, fileBytes []byte, maxPages int) ([][]byte, error)
}

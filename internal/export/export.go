package export

import (
	"context"

	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
)

var exportPages, _ = meter.Int64Counter("export_pages")

// Export renders records into a pdf document. A prompt image that cannot be
// fetched fails the whole export with an *ImageFetchError.
func Export(ctx context.Context, records []exam.Question, images ImageSource, opts Options, tel telemetry.API) ([]byte, error) {
	canvas := NewPDFCanvas()
	pages, err := Render(ctx, canvas, images, records, opts, tel)
	if err != nil {
		return nil, err
	}
	exportPages.Add(ctx, int64(pages))
	return canvas.Bytes()
}

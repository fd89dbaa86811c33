package render

import "errors"

var (
	// ErrRenderCharts indicates the charts page failed to render.
	ErrRenderCharts = errors.New("failed to render charts")
	// ErrRenderReport indicates a report template failed to execute.
	ErrRenderReport = errors.New("failed to render report")
)

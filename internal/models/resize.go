package models

const (
	DefaultResizeWidth  = 800
	DefaultResizeHeight = 600
)

// ResizeRequest scales the source to exactly Width x Height.
// Aspect ratio is not preserved.
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (ResizeRequest) Name() string { return OperationResize }

func (ResizeRequest) isOperation() {}

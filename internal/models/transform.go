package models

const (
	OperationResize     = "resize"
	OperationCrop       = "crop"
	OperationDimensions = "dimensions"
)

// Operation is implemented only by the request types in this package:
// ResizeRequest, CropRequest and DimensionsRequest.
type Operation interface {
	Name() string
	isOperation()
}

// TransformInput is everything the engine needs for one request.
type TransformInput struct {
	Data      []byte
	Operation Operation
}

// TransformOutput carries the encoded image and its MIME type. For a
// dimensions query Data is nil and Width/Height describe the source.
type TransformOutput struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

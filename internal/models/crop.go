package models

// CropRequest extracts the rectangle starting at (X, Y) relative to the
// image origin. All four fields are required.
type CropRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (CropRequest) Name() string { return OperationCrop }

func (CropRequest) isOperation() {}

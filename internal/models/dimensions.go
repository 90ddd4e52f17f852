package models

type DimensionsRequest struct{}

func (DimensionsRequest) Name() string { return OperationDimensions }

func (DimensionsRequest) isOperation() {}

type DimensionsResponse struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MIMEType string `json:"mime_type"`
}

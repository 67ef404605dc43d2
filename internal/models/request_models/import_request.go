package request_models

type ImportTextRequest struct {
	Text string `json:"text" binding:"required"`
}

type ImportImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

package imagen

// predictRequest is the body of a :predict call.
type predictRequest struct {
	Instances  []instance `json:"instances"`
	Parameters Parameters `json:"parameters"`
}

// instance is one prompt in a predict request.
type instance struct {
	Prompt string `json:"prompt"`
}

// Parameters are the fixed generation settings sent with every prompt.
type Parameters struct {
	SampleCount       int    `json:"sampleCount"`
	AspectRatio       string `json:"aspectRatio"`
	SafetyFilterLevel string `json:"safetyFilterLevel"`
	PersonGeneration  string `json:"personGeneration"`
}

// predictResponse is the body of a successful :predict call.
type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

// prediction is one generated image.
type prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType,omitempty"`
}

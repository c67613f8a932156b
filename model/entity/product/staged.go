package product

// StagedUploadInput describes one file to stage before it is referenced by
// a product mutation.
type StagedUploadInput struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Resource   string `json:"resource"`
	HTTPMethod string `json:"httpMethod,omitempty"`
	FileSize   string `json:"fileSize,omitempty"`
}

type StagedParameter struct {
	Name  string `json:"name" mapstructure:"name"`
	Value string `json:"value" mapstructure:"value"`
}

// StagedTarget is where the bytes go (URL) and how the file is referenced
// afterwards (ResourceURL).
type StagedTarget struct {
	URL         string            `json:"url" mapstructure:"url"`
	ResourceURL string            `json:"resourceUrl" mapstructure:"resourceUrl"`
	Parameters  []StagedParameter `json:"parameters" mapstructure:"parameters"`
	// Method is the httpMethod the target was requested with.
	Method string `json:"-" mapstructure:"-"`
}

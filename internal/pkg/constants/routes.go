package constants

// Static route prefixes
const (
	UploadsRoute = "/uploads"
	AssetsRoute  = "/assets"
	APIDocsRoute = "/docs/api/"
)

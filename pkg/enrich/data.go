package enrich

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// DataURI turns raw image bytes into a data URI for a vision request. Input
// that already carries a data: prefix passes through untouched, so callers
// can hand over either form. The content type is sniffed and must be an
// image.
func DataURI(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	if strings.HasPrefix(string(image), "data:") {
		return string(image), nil
	}

	contentType := http.DetectContentType(image)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image: detected %s", contentType)
	}

	return fmt.Sprintf("data:%s;base64,%s",
		contentType, base64.StdEncoding.EncodeToString(image)), nil
}

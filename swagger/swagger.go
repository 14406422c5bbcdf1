// Package swagger serves the OpenAPI document of the library API together
// with a swagger-ui page that renders it.
package swagger

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

const specFile = "openapi.yaml"

//go:embed swagger-ui/*
var content embed.FS

// Spec returns the raw OpenAPI document.
func Spec() ([]byte, error) {
	return content.ReadFile("swagger-ui/" + specFile)
}

// GetHandler serves the ui page at "/" and the document at "/openapi.yaml".
// The handler expects the mount prefix to be stripped already.
func GetHandler() (http.Handler, error) {
	subFS, err := fs.Sub(content, "swagger-ui")
	if err != nil {
		return nil, fmt.Errorf("swagger.GetHandler: %w", err)
	}

	files := http.FileServer(http.FS(subFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".yaml") {
			w.Header().Set("Content-Type", "application/yaml")
		}

		files.ServeHTTP(w, r)
	}), nil
}

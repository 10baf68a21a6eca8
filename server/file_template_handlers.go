package server

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplates parses every page along with the shared layout blocks
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(TemplateFilesFS(), "*.html")
}

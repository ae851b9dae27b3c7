package html

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// StylesheetName is the file name of the default stylesheet in AssetsFS.
const StylesheetName = "formstudio.css"

// TemplatesFS exposes the built-in templates (form.tpl and control.tpl) so
// hosts can copy and customise them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the embedded stylesheet.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// AssetsHandler serves AssetsFS. Mount it with http.StripPrefix.
func AssetsHandler() http.Handler {
	return http.FileServer(http.FS(AssetsFS()))
}

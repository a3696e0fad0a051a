package config

const (
	HCType        = "Content-Type"
	HCacheControl = "Cache-Control"

	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
)

const (
	CookieSession = "session"
)

const (
	//? These paths must match the paths in the embed directive

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateIndex  = "index.html"
	TemplatePost   = "post.html"
)

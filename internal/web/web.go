// Package web holds the server-rendered HTML templates.
package web

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded page. Each file defines named templates
// that handlers render by name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"sortHref": sortHref,
		"str":      str,
		"when":     when,
	}
}

// sortHref links a column header: the current column flips direction, any
// other column starts ascending.
func sortHref(path, q, sort, dir, field string) string {
	next := "asc"
	if sort == field && dir != "desc" {
		next = "desc"
	}
	v := url.Values{}
	v.Set("q", q)
	v.Set("sort", field)
	v.Set("dir", next)
	return path + "?" + v.Encode()
}

// str renders optional columns; nil pointers become an empty string.
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	case *float64:
		if x != nil {
			return strconv.FormatFloat(*x, 'f', -1, 64)
		}
	case *int:
		if x != nil {
			return strconv.Itoa(*x)
		}
	case time.Time:
		return when(x)
	case *time.Time:
		if x != nil {
			return when(*x)
		}
	}
	return ""
}

func when(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Package views holds the HTML templates and the templ components of the site.
package views

import (
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/viewmodel"
)

//go:embed layouts/*.html partials/*.html listings/*.html auth/*.html user/*.html contact/*.html admin/*.html errors/*.html
var files embed.FS

// Layout is the template every full page is rendered into
const Layout = "layouts/main"

// NewEngine parses the embedded templates
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFuncMap(map[string]interface{}{
		"media":  viewmodel.MediaURL,
		"avatar": viewmodel.AvatarURL,
		"rating": formatRating,
		"stars":  stars,
		"price":  formatPrice,
		"seq":    seq,
		"preview": func(img models.ListingImage) string {
			return viewmodel.MediaURL(img.Preview())
		},
	})
	return engine
}

func formatRating(avg *float64) string {
	if avg == nil {
		return ""
	}
	return fmt.Sprintf("%.1f", *avg)
}

func formatPrice(p float64) string {
	whole, cents, _ := strings.Cut(fmt.Sprintf("%.2f", p), ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String() + "." + cents
}

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// seq returns 1..n
func seq(n int) []int {
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

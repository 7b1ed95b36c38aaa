package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/ManuelReschke/HouseHub/internal/pkg/statistics"
	"github.com/ManuelReschke/HouseHub/internal/pkg/viewmodel"
)

// About is the static about page with the live site totals
func About(layout viewmodel.Layout, stats statistics.StatisticsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		esc := html.EscapeString
		nav := `<a href="/login">Log in</a> <a href="/register">Register</a>`
		if layout.User.IsLoggedIn {
			nav = `<a href="/add">List a house</a> <a href="/profile">` + esc(layout.User.Username) + `</a>`
		}

		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <link rel="stylesheet" href="/assets/css/househub.css">
</head>
<body>
  <nav class="nav"><a class="brand" href="/">HouseHub</a> <a href="/">Houses</a> %s</nav>
  <main class="container about">
    <h1>About HouseHub</h1>
    <p>HouseHub connects people who rent out or sell houses with people looking for their next home.
    Browse listings, leave comments and reviews, and get in touch with the owners directly.</p>
    <section class="stats">
      <div class="stat"><strong>%d</strong><span>houses listed</span></div>
      <div class="stat"><strong>%d</strong><span>members</span></div>
      <div class="stat"><strong>%d</strong><span>reviews written</span></div>
    </section>
    <p>Questions? <a href="/contact">Contact us</a>.</p>
  </main>
  <footer class="footer">
    <a href="/about">About</a> · <a href="/contact">Contact</a> · <a href="/docs/api/v1">API</a>
  </footer>
</body>
</html>
`, esc(layout.PageTitle()), nav, stats.TotalListings, stats.TotalUsers, stats.TotalReviews)
		return err
	})
}

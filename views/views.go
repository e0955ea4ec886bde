package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
)

// Index renders the game page. The 3D client lives in static/js and drives
// the game through datastar signals: it posts updates to /update and
// subscribes to /gamestate for the server-authoritative state stream.
func Index() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		callsign := ""
		if user, ok := ctx.Value("user").(*core.Record); ok && user != nil {
			callsign = user.GetString("callsign")
		}

		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Tank Combat</title>
	<link rel="stylesheet" href="/static/css/game.css">
	<script type="module" src="/static/js/datastar.js"></script>
</head>
<body data-signals='{"update":"","shellFired":"","tankRespawn":"","gameState":""}'
	data-on-load="@get('/gamestate')">
	<div id="hud">
		<span id="callsign">%s</span>
		<span id="health"></span>
		<a href="/logout">Log out</a>
	</div>
	<canvas id="game"></canvas>
	<script type="module" src="/static/js/game.js"></script>
</body>
</html>`, html.EscapeString(callsign))
		return err
	})
}

// Login renders the OAuth2 provider picker.
func Login(providers []core.OAuth2ProviderConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Tank Combat - Login</title>
	<link rel="stylesheet" href="/static/css/game.css">
	<script type="module" src="/static/js/auth.js"></script>
</head>
<body>
	<main class="login">
		<h1>Tank Combat</h1>
`); err != nil {
			return err
		}

		for _, p := range providers {
			name := html.EscapeString(p.Name)
			if _, err := fmt.Fprintf(w,
				"\t\t<button class=\"provider\" data-provider=\"%s\">Sign in with %s</button>\n",
				name, name); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `	</main>
</body>
</html>`)
		return err
	})
}

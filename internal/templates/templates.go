package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// ReservationEmail renders entities.ReservationEmailData.
var ReservationEmail = template.Must(template.ParseFS(files, "reservation_email.html"))

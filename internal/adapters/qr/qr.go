// Package qr builds the share affordance for a hotel menu: the public URL a
// guest scans, a locally rendered PNG, and the third-party image-service URL
// the print/copy widget uses. None of these validate that the encoded URL is
// reachable.
package qr

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

type Generator struct {
	publicBase string // e.g. https://menus.example.com
	imageBase  string // e.g. https://api.qrserver.com/v1/create-qr-code/
}

func New(publicBase, imageBase string) *Generator {
	return &Generator{
		publicBase: strings.TrimRight(publicBase, "/"),
		imageBase:  imageBase,
	}
}

// ShareURL is the content encoded into the QR code: the public menu page for
// the hotel.
func (g *Generator) ShareURL(hotelID int64) string {
	return fmt.Sprintf("%s/hotels/%d", g.publicBase, hotelID)
}

// ImageURL returns the external image-service rendering of the share URL,
// content URL-encoded as a query parameter.
func (g *Generator) ImageURL(hotelID int64, size int) string {
	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", size, size))
	q.Set("data", g.ShareURL(hotelID))
	return g.imageBase + "?" + q.Encode()
}

// PNG renders the share URL as a QR code image in-process.
func (g *Generator) PNG(hotelID int64, size int) ([]byte, error) {
	return qrcode.Encode(g.ShareURL(hotelID), qrcode.Medium, size)
}

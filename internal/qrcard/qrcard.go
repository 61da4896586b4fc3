// Package qrcard renders customer codes as QR images.
package qrcard

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// PNG encodes content as a square PNG of size pixels.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// DataURI returns the QR image inline, ready for an <img src>.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// EntryURL is the link printed on cards: scanning it lands on /qr/{code}.
func EntryURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/qr/" + url.PathEscape(code)
}

// WalletURL adds the code as the id query parameter of the wallet link.
func WalletURL(walletURL, code string) string {
	u, err := url.Parse(walletURL)
	if err != nil {
		return walletURL + "?id=" + url.QueryEscape(code)
	}
	q := u.Query()
	q.Set("id", code)
	u.RawQuery = q.Encode()
	return u.String()
}

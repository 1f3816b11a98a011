package normalize

import (
	"net/url"
	"strings"
)

var wifiEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

// WiFiURI builds the WIFI: join string understood by phone cameras.
func WiFiURI(ssid, password string) string {
	return "WIFI:T:WPA;S:" + wifiEscaper.Replace(ssid) + ";P:" + wifiEscaper.Replace(password) + ";;"
}

// QRCodeURL points a QR image service at the WiFi join string.
func QRCodeURL(base, ssid, password string) string {
	q := url.Values{}
	q.Set("size", "400x400")
	q.Set("data", WiFiURI(ssid, password))
	return base + "?" + q.Encode()
}

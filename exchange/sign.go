package exchange

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Request is the canonical outbound request descriptor produced by an
// adapter's signing step: final URL, method, headers, and encoded body.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

func HMACSHA512Hex(payload, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func HMACMD5Hex(payload, secret string) string {
	mac := hmac.New(md5.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func SHA1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// RawEncodeSorted joins params as k=v pairs in key order without URL
// escaping. Some signing schemes hash the raw string, not the escaped one.
func RawEncodeSorted(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			pairs = append(pairs, k+"="+v)
		}
	}
	return strings.Join(pairs, "&")
}

package session

import "github.com/mssola/useragent"

// clientInfo summarizes a User-Agent header for audit records.
type clientInfo struct {
	Browser string
	OS      string
}

func parseUserAgent(header string) clientInfo {
	if header == "" {
		return clientInfo{}
	}
	ua := useragent.New(header)
	browser, version := ua.Browser()
	info := clientInfo{Browser: browser, OS: ua.OS()}
	if version != "" {
		info.Browser = browser + " " + version
	}
	if ua.Bot() {
		info.Browser = "bot: " + info.Browser
	}
	return info
}

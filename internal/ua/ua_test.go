package ua

import "testing"

const (
	firefoxLinux = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
	safariIPhone = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Mobile/15E148 Safari/604.1"
	googlebot    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestClassifyDesktop(t *testing.T) {
	c := NewParser().Classify(firefoxLinux)
	if c.BrowserFamily != "Firefox" {
		t.Errorf("BrowserFamily = %q, want Firefox", c.BrowserFamily)
	}
	if c.OSFamily != "Linux" {
		t.Errorf("OSFamily = %q, want Linux", c.OSFamily)
	}
	if c.DeviceFamily != "Desktop" {
		t.Errorf("DeviceFamily = %q, want Desktop", c.DeviceFamily)
	}
	if c.IsBot {
		t.Error("IsBot = true, want false")
	}
}

func TestClassifyMobile(t *testing.T) {
	c := NewParser().Classify(safariIPhone)
	if c.OSFamily != "iOS" {
		t.Errorf("OSFamily = %q, want iOS", c.OSFamily)
	}
	if c.DeviceFamily == "" {
		t.Error("DeviceFamily is empty for an iPhone signature")
	}
	if c.IsBot {
		t.Error("IsBot = true, want false")
	}
}

func TestClassifyBot(t *testing.T) {
	c := NewParser().Classify(googlebot)
	if !c.IsBot {
		t.Error("IsBot = false, want true for Googlebot")
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := NewParser().Classify("")
	if c != (Classification{}) {
		t.Errorf("Classify(\"\") = %+v, want zero value", c)
	}
}

func TestClassifyGarbage(t *testing.T) {
	// Arbitrary input must not panic; families may be empty.
	c := NewParser().Classify("\x00\xff not a user agent at all")
	if c.IsBot {
		t.Error("IsBot = true for garbage input")
	}
}

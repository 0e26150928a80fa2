package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"ip": "203.0.113.9",
			"city": "San Jose",
			"region": "California",
			"country": "US",
			"org": "AS64496 Example Networks",
			"loc": "37.3382,-121.8863"
		}`))
	}))
	defer srv.Close()

	r := New(srv.URL, "secret-token", time.Second, nil)
	e := r.Resolve(context.Background(), "203.0.113.9")
	if e == nil {
		t.Fatal("Resolve returned nil, want enrichment")
	}
	if gotPath != "/203.0.113.9" {
		t.Errorf("request path = %q, want /203.0.113.9", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want Bearer secret-token", gotAuth)
	}
	if e.City != "San Jose" || e.Country != "US" {
		t.Errorf("enrichment = %+v", e)
	}
	if e.Latitude != 37.3382 || e.Longitude != -121.8863 {
		t.Errorf("coordinates = (%v, %v)", e.Latitude, e.Longitude)
	}
}

func TestResolveNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"ip":"203.0.113.9","loc":"1.0,2.0"}`))
	}))
	defer srv.Close()

	r := New(srv.URL, "", time.Second, nil)
	if e := r.Resolve(context.Background(), "203.0.113.9"); e == nil {
		t.Fatal("Resolve returned nil")
	}
}

func TestResolveServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := New(srv.URL, "", time.Second, nil)
	if e := r.Resolve(context.Background(), "203.0.113.9"); e != nil {
		t.Errorf("Resolve = %+v, want nil on service error", e)
	}
}

func TestResolveMalformedLoc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.9","loc":"not-coordinates"}`))
	}))
	defer srv.Close()

	r := New(srv.URL, "", time.Second, nil)
	if e := r.Resolve(context.Background(), "203.0.113.9"); e != nil {
		t.Errorf("Resolve = %+v, want nil on malformed loc", e)
	}
}

func TestResolveSkipsNonRoutable(t *testing.T) {
	// The server must never be contacted for these addresses.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected lookup for %s", r.URL.Path)
	}))
	defer srv.Close()

	r := New(srv.URL, "", time.Second, nil)
	for _, ip := range []string{
		"127.0.0.1", "10.1.2.3", "192.168.0.1", "172.16.5.5",
		"169.254.1.1", "0.0.0.0", "::1", "fe80::1",
		"::ffff:127.0.0.1", "::ffff:10.0.0.1",
		"not-an-ip", "",
	} {
		if e := r.Resolve(context.Background(), ip); e != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", ip, e)
		}
	}
}

func TestParseLoc(t *testing.T) {
	tests := []struct {
		loc      string
		lat, lon float64
		wantErr  bool
	}{
		{"37.3382,-121.8863", 37.3382, -121.8863, false},
		{"0,0", 0, 0, false},
		{" 1.5 , 2.5 ", 1.5, 2.5, false},
		{"", 0, 0, true},
		{"37.3382", 0, 0, true},
		{"abc,def", 0, 0, true},
	}
	for _, tt := range tests {
		lat, lon, err := parseLoc(tt.loc)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLoc(%q): expected error", tt.loc)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLoc(%q): %v", tt.loc, err)
			continue
		}
		if lat != tt.lat || lon != tt.lon {
			t.Errorf("parseLoc(%q) = (%v, %v), want (%v, %v)", tt.loc, lat, lon, tt.lat, tt.lon)
		}
	}
}

package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const adPage = `<html><body>
<h1 data-cy="ad_title">Rower górski Kross</h1>
<div data-cy="ad_description"><div>Sprawny, mało używany.</div></div>
<div data-testid="ad-price-container"><h3>1200 zł</h3></div>
<a name="user_ads" href="/oferty/uzytkownik/u1/"><h2>Marek</h2></a>
</body></html>`

func newAdServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/d/oferta/rower") {
			_, _ = w.Write([]byte(adPage))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDetailCmdFromArguments(t *testing.T) {
	t.Parallel()

	srv := newAdServer(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"detail", "--all", srv.URL + "/d/oferta/rower-ID1.html"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 record:\n%s", len(lines), out.String())
	}
	if lines[0] != "link,kind,title,price,location,description,author,profile" {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"Rower górski Kross", "1200 zł", "Marek"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("record missing %q: %q", want, lines[1])
		}
	}
}

func TestDetailCmdFromStdinStream(t *testing.T) {
	t.Parallel()

	srv := newAdServer(t)

	// A list-produced stream: the location column survives into the
	// output because the ad page itself does not yield one.
	input := "link,location\n" + srv.URL + "/d/oferta/rower-ID1.html,Gdańsk\n"

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs([]string{"detail", "--title", "--location"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "Gdańsk") {
		t.Errorf("seed location lost:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Rower górski Kross") {
		t.Errorf("extracted title missing:\n%s", out.String())
	}
}

func TestDetailCmdFromStdinURLs(t *testing.T) {
	t.Parallel()

	srv := newAdServer(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(srv.URL + "/d/oferta/rower-ID1.html\n"))
	cmd.SetArgs([]string{"detail", "--title"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "Rower górski Kross") {
		t.Errorf("record missing:\n%s", out.String())
	}
}

func TestDetailCmdFailedAdExitsPartial(t *testing.T) {
	t.Parallel()

	srv := newAdServer(t)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"detail", "--title",
		srv.URL + "/d/oferta/rower-ID1.html",
		srv.URL + "/d/oferta/usunieta-ID9.html",
	})

	err := cmd.Execute()
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != exitPartial {
		t.Fatalf("Execute() error = %v, want partial exit", err)
	}
	// The resolvable ad still made it to the output.
	if !strings.Contains(out.String(), "rower-ID1.html") {
		t.Errorf("partial output missing resolved record:\n%s", out.String())
	}
}

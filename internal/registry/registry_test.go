package registry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fortuna-events/weft/internal/testutil"
)

func TestCreateOrFindWireFormat(t *testing.T) {
	srv := testutil.NewShlinkServer(t, "secret")
	c := NewClient(srv.URL, "secret", 0)

	short, err := c.CreateOrFind(context.Background(), "https://app.example?z=abc", false)
	if err != nil {
		t.Fatalf("CreateOrFind: %v", err)
	}
	if !strings.HasPrefix(short, srv.URL+"/") {
		t.Errorf("short = %q, want a URL under the registry", short)
	}

	creates := srv.Creates()
	if len(creates) != 1 {
		t.Fatalf("creates = %d, want 1", len(creates))
	}
	if creates[0].LongURL != "https://app.example?z=abc" {
		t.Errorf("longUrl = %q", creates[0].LongURL)
	}
	if creates[0].FindIfExists {
		t.Error("findIfExists should be false")
	}
}

func TestCreateOrFindReusesExisting(t *testing.T) {
	srv := testutil.NewShlinkServer(t, "secret")
	c := NewClient(srv.URL, "secret", 0)
	ctx := context.Background()

	first, err := c.CreateOrFind(ctx, "https://app.example?z=same", true)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.CreateOrFind(ctx, "https://app.example?z=same", true)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("findIfExists should reuse the mapping: %q vs %q", first, second)
	}
}

func TestUpdateRepoints(t *testing.T) {
	srv := testutil.NewShlinkServer(t, "secret")
	c := NewClient(srv.URL, "secret", 0)
	ctx := context.Background()

	short, err := c.CreateOrFind(ctx, "https://app.example?z=old", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Update(ctx, short, "https://app.example?z=new"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := srv.LongFor(short); got != "https://app.example?z=new" {
		t.Errorf("short URL points at %q, want the new long URL", got)
	}
}

func TestBadAPIKeyIsStatusError(t *testing.T) {
	srv := testutil.NewShlinkServer(t, "secret")
	c := NewClient(srv.URL, "wrong", 0)

	_, err := c.CreateOrFind(context.Background(), "https://app.example?z=abc", false)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if statusErr.Code != 401 {
		t.Errorf("code = %d, want 401", statusErr.Code)
	}
}

func TestUpdateUnknownCode(t *testing.T) {
	srv := testutil.NewShlinkServer(t, "secret")
	c := NewClient(srv.URL, "secret", time.Second)

	err := c.Update(context.Background(), srv.URL+"/nope", "https://app.example?z=x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if statusErr.Code != 404 {
		t.Errorf("code = %d, want 404", statusErr.Code)
	}
}

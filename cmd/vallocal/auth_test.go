package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vallocal/vallocal-go/pkg/vallocal"
)

func TestSummarize(t *testing.T) {
	s := vallocal.Session{
		AccessToken:       "secret-access",
		EntitlementsToken: "secret-entitlements",
		PlayerID:          "11111111-2222-3333-4444-555555555555",
		Shard:             "eu",
		Region:            "eu",
		ClientVersion:     "release-10.03.0",
		ExpiresAt:         time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC),
	}
	creds := vallocal.Credentials{PID: os.Getpid(), Port: 51234}

	sum := summarize(s, creds)
	if sum.PlayerID != s.PlayerID || sum.Shard != "eu" || sum.Region != "eu" {
		t.Errorf("summarize() = %+v", sum)
	}
	if sum.ExpiresAt != "2024-05-01T19:00:00Z" {
		t.Errorf("ExpiresAt = %q", sum.ExpiresAt)
	}
	if !sum.ProcessAlive {
		t.Error("ProcessAlive = false for the test process")
	}

	var buf bytes.Buffer
	if err := printAuth(sum, true, &buf); err != nil {
		t.Fatalf("printAuth(json) error = %v", err)
	}
	if strings.Contains(buf.String(), "secret") {
		t.Errorf("tokens leaked into output: %s", buf.String())
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["port"] != float64(51234) {
		t.Errorf("port = %v", decoded["port"])
	}
}

func TestPrintAuthText(t *testing.T) {
	sum := summarize(vallocal.Session{PlayerID: "p1", Shard: "na", Region: "latam"}, vallocal.Credentials{})

	var buf bytes.Buffer
	if err := printAuth(sum, false, &buf); err != nil {
		t.Fatalf("printAuth() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"player:   p1", "shard:    na", "region:   latam", "expires:  unknown", "alive=false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

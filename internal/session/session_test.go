package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallocal/vallocal-go/internal/lockfile"
)

func makeToken(t *testing.T, claims any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"RS256"}`)) + "." + enc.EncodeToString(payload) + ".sig"
}

// fakeLocalAPI serves the token and external-session endpoints.
type fakeLocalAPI struct {
	tokenStatus int
	tokenBody   any
	version     string
	password    string
}

func (f *fakeLocalAPI) start(t *testing.T) lockfile.Credentials {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+tokenPath, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != localUser || pass != f.password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(f.tokenBody)
	})
	mux.HandleFunc("GET "+externalSessionPath, func(w http.ResponseWriter, r *http.Request) {
		if f.version == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"host_app": map[string]any{"version": ""},
			"valorant": map[string]any{"version": f.version},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return lockfile.Credentials{Name: "Riot Client", PID: 1, Port: uint16(port), Password: f.password, Transport: "http"}
}

func validBody(t *testing.T, claims any) map[string]any {
	return map[string]any{
		"accessToken": makeToken(t, claims),
		"token":       "entitlements",
		"subject":     "puuid-1",
	}
}

func TestResolveRouting(t *testing.T) {
	tests := []struct {
		name      string
		claims    any
		wantShard string
	}{
		{"acct country", map[string]any{"acct": map[string]any{"country": "na"}}, "na"},
		{"region table", map[string]any{"region": "tr"}, "eu"},
		{"shard claim", map[string]any{"shard": "KR"}, "ap"},
		{"no claim", map[string]any{"sub": "x"}, "eu"},
		{"country wins over region", map[string]any{"acct": map[string]any{"country": "br"}, "region": "eu"}, "na"},
		{"non-string falls through", map[string]any{"acct": map[string]any{"country": 7}, "region": "jp"}, "ap"},
		{"unknown passes through", map[string]any{"region": "PBE"}, "pbe"},
		{"empty country falls back", map[string]any{"acct": map[string]any{"country": ""}}, "eu"},
		{"empty region falls back", map[string]any{"region": ""}, "eu"},
		{"blank region falls back", map[string]any{"region": "   "}, "eu"},
		{"blank country falls through", map[string]any{"acct": map[string]any{"country": " "}, "shard": "na"}, "na"},
		{"padded code trimmed", map[string]any{"region": " euw "}, "eu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shard, region, err := ResolveRouting(makeToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.wantShard, shard)
			assert.Equal(t, shard, region)
		})
	}
}

func TestResolveRouting_Errors(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"single segment", "abc", "invalid token"},
		{"empty", "", "invalid token"},
		{"bad base64", "a.!!!!.c", "decode failed"},
		{"not json", "a." + base64.RawURLEncoding.EncodeToString([]byte("nope")) + ".c", "decode failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ResolveRouting(tt.token)
			require.ErrorIs(t, err, ErrAuthFailed)
			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tt.reason, authErr.Reason)
		})
	}
}

func TestResolveRouting_PaddedSegment(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"region":"na"}`))
	shard, _, err := ResolveRouting("h." + payload + ".s")
	require.NoError(t, err)
	assert.Equal(t, "na", shard)
}

func TestMapRegion(t *testing.T) {
	for code, want := range map[string]string{
		"euw": "eu", "EUNE": "eu", "ru": "eu",
		"us": "na", "latam": "na", "las": "na",
		"oce": "ap", "sea": "ap", "Jp": "ap",
		"cn": "cn",
	} {
		assert.Equal(t, want, MapRegion(code), code)
	}
}

func TestAuthenticate(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	api := &fakeLocalAPI{
		password:  "secret",
		tokenBody: validBody(t, map[string]any{"acct": map[string]any{"country": "na"}, "exp": exp.Unix()}),
	}
	creds := api.start(t)

	s, err := Authenticate(context.Background(), http.DefaultClient, creds)
	require.NoError(t, err)
	assert.Equal(t, "entitlements", s.EntitlementsToken)
	assert.Equal(t, "puuid-1", s.PlayerID)
	assert.Equal(t, "na", s.Shard)
	assert.Equal(t, "na", s.Region)
	assert.True(t, exp.Equal(s.ExpiresAt), "ExpiresAt = %v, want %v", s.ExpiresAt, exp)
	assert.Empty(t, s.ClientVersion)
}

func TestAuthenticate_MissingFields(t *testing.T) {
	for _, field := range []string{"accessToken", "token", "subject"} {
		t.Run(field, func(t *testing.T) {
			body := validBody(t, map[string]any{})
			delete(body, field)
			creds := (&fakeLocalAPI{password: "pw", tokenBody: body}).start(t)

			_, err := Authenticate(context.Background(), http.DefaultClient, creds)
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, "missing "+field, authErr.Reason)
		})
	}
}

func TestAuthenticate_Rejected(t *testing.T) {
	api := &fakeLocalAPI{password: "right", tokenBody: validBody(t, map[string]any{})}
	creds := api.start(t)
	creds.Password = "wrong"

	_, err := Authenticate(context.Background(), http.DefaultClient, creds)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "status 401", authErr.Reason)
}

func TestAuthenticate_Transport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u, _ := url.Parse(srv.URL)
	port, _ := strconv.Atoi(u.Port())
	srv.Close()

	_, err := Authenticate(context.Background(), http.DefaultClient, lockfile.Credentials{Port: uint16(port), Transport: "http"})
	require.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrAuthFailed)
}

func TestFetchClientVersion(t *testing.T) {
	creds := (&fakeLocalAPI{version: "release-11.00-shipping-9"}).start(t)
	assert.Equal(t, "release-11.00-shipping-9", FetchClientVersion(context.Background(), http.DefaultClient, creds))

	creds = (&fakeLocalAPI{}).start(t)
	assert.Equal(t, DefaultClientVersion, FetchClientVersion(context.Background(), http.DefaultClient, creds))
}

func TestAuthHeaders(t *testing.T) {
	h := AuthHeaders(Session{AccessToken: "a", EntitlementsToken: "e", ClientVersion: "v"})
	assert.Equal(t, "Bearer a", h.Get("Authorization"))
	assert.Equal(t, "e", h.Get("X-Riot-Entitlements-JWT"))
	assert.Equal(t, "v", h.Get("X-Riot-ClientVersion"))
	assert.Equal(t, ClientPlatform, h.Get("X-Riot-ClientPlatform"))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
}

func TestNewManager(t *testing.T) {
	api := &fakeLocalAPI{
		password:  "pw",
		version:   "release-10.05",
		tokenBody: validBody(t, map[string]any{"region": "kr"}),
	}
	creds := api.start(t)

	m, err := NewManager(context.Background(), WithCredentials(creds), WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)

	s := m.Snapshot()
	assert.Equal(t, "ap", s.Shard)
	assert.Equal(t, "release-10.05", s.ClientVersion)
	assert.Equal(t, creds, m.Credentials())
	assert.Same(t, http.DefaultClient, m.HTTPClient())
}

func TestNewManager_LockfileMissing(t *testing.T) {
	_, err := NewManager(context.Background(), WithLockfilePath(t.TempDir()+"/missing"))
	require.ErrorIs(t, err, lockfile.ErrNotFound)
}

func TestManager_ReauthenticateKeepsSessionOnFailure(t *testing.T) {
	api := &fakeLocalAPI{password: "pw", tokenBody: validBody(t, map[string]any{"region": "na"})}
	creds := api.start(t)

	m, err := NewManager(context.Background(), WithCredentials(creds), WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	before := m.Snapshot()

	api.tokenStatus = http.StatusForbidden
	err = m.Reauthenticate(context.Background())
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, before, m.Snapshot())
}

func TestManager_SnapshotNeverTorn(t *testing.T) {
	m := &Manager{logger: discardLogger}
	a := Session{AccessToken: "a", EntitlementsToken: "a", PlayerID: "a", Shard: "a", Region: "a"}
	b := Session{AccessToken: "b", EntitlementsToken: "b", PlayerID: "b", Shard: "b", Region: "b"}
	m.Replace(a)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				m.Replace(a)
			} else {
				m.Replace(b)
			}
		}
	}()

	torn := 0
	for i := 0; i < 10000; i++ {
		s := m.Snapshot()
		if s != a && s != b {
			torn++
		}
	}
	close(stop)
	wg.Wait()
	assert.Zero(t, torn)
}

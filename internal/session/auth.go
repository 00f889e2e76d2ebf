package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vallocal/vallocal-go/internal/cluster"
	"github.com/vallocal/vallocal-go/internal/lockfile"
)

const (
	tokenPath           = "/entitlements/v1/token"
	externalSessionPath = "/product-session/v1/external-sessions"

	// localUser is the fixed basic-auth user name of the local control API.
	localUser = "riot"

	// maxLocalResponse bounds responses read from the local control API.
	maxLocalResponse = 1 << 20
)

type tokenResponse struct {
	AccessToken *string `json:"accessToken"`
	Token       *string `json:"token"`
	Subject     *string `json:"subject"`
}

// Authenticate exchanges local credentials for a session.
// The returned session has routing resolved but no ClientVersion.
func Authenticate(ctx context.Context, client *http.Client, creds lockfile.Credentials) (Session, error) {
	var resp tokenResponse
	if err := getLocal(ctx, client, creds, tokenPath, &resp); err != nil {
		return Session{}, err
	}

	switch {
	case resp.AccessToken == nil:
		return Session{}, authFailed("missing accessToken")
	case resp.Token == nil:
		return Session{}, authFailed("missing token")
	case resp.Subject == nil:
		return Session{}, authFailed("missing subject")
	}

	claims, err := decodeClaims(*resp.AccessToken)
	if err != nil {
		return Session{}, err
	}
	shard, region := routingFromClaims(claims)

	return Session{
		AccessToken:       *resp.AccessToken,
		EntitlementsToken: *resp.Token,
		PlayerID:          *resp.Subject,
		Shard:             shard,
		Region:            region,
		ExpiresAt:         expiryFromClaims(claims),
	}, nil
}

// ResolveRouting derives shard and region from the access token's claims.
// The signature is not verified. A token without a recognizable routing
// claim resolves to DefaultRegion.
func ResolveRouting(accessToken string) (shard, region string, err error) {
	claims, err := decodeClaims(accessToken)
	if err != nil {
		return "", "", err
	}
	shard, region = routingFromClaims(claims)
	return shard, region, nil
}

// FetchClientVersion returns the first non-empty version reported by the
// local product sessions, or DefaultClientVersion if none is available.
func FetchClientVersion(ctx context.Context, client *http.Client, creds lockfile.Credentials) string {
	var sessions map[string]struct {
		Version string `json:"version"`
	}
	if err := getLocal(ctx, client, creds, externalSessionPath, &sessions); err != nil {
		return DefaultClientVersion
	}
	for _, s := range sessions {
		if s.Version != "" {
			return s.Version
		}
	}
	return DefaultClientVersion
}

// getLocal issues an authenticated GET against the local control API and
// decodes the JSON response into out.
func getLocal(ctx context.Context, client *http.Client, creds lockfile.Credentials, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cluster.LocalBase(creds)+path, nil)
	if err != nil {
		return &TransportError{Op: "building request", Err: err}
	}
	req.SetBasicAuth(localUser, creds.Password)

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return authFailed("status " + strconv.Itoa(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLocalResponse))
	if err != nil {
		return &TransportError{Op: "reading " + path, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return authFailed(fmt.Sprintf("invalid response: %v", err))
	}
	return nil
}

// decodeClaims decodes the payload segment of a JWT without verifying it.
func decodeClaims(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, authFailed("invalid token")
	}

	payload, err := jwt.NewParser(jwt.WithPaddingAllowed()).DecodeSegment(parts[1])
	if err != nil {
		return nil, authFailed("decode failed")
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, authFailed("decode failed")
	}
	return claims, nil
}

// routingLookups are tried in order; the first non-blank string value wins.
var routingLookups = [][]string{
	{"acct", "country"},
	{"region"},
	{"shard"},
}

func routingFromClaims(claims map[string]any) (shard, region string) {
	shard = DefaultRegion
	for _, path := range routingLookups {
		if v, ok := lookupString(claims, path); ok {
			shard = MapRegion(v)
			break
		}
	}
	return shard, shard
}

func lookupString(claims map[string]any, path []string) (string, bool) {
	var cur any = claims
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func expiryFromClaims(claims map[string]any) time.Time {
	exp, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

var regionTable = map[string]string{
	"euw": "eu", "eune": "eu", "eu": "eu", "tr": "eu", "ru": "eu",
	"na": "na", "us": "na", "br": "na", "latam": "na", "lan": "na", "las": "na",
	"ap": "ap", "kr": "ap", "jp": "ap", "oce": "ap", "sea": "ap",
}

// MapRegion maps a country or region code to its cluster shard.
// Unknown codes are returned lower-cased.
func MapRegion(code string) string {
	code = strings.ToLower(code)
	if shard, ok := regionTable[code]; ok {
		return shard
	}
	return code
}

package servicetoken

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kbhub/txledger/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("an-adequately-long-test-secret")
	allowList  = []string{"ms-core", "ms-transaction", "ms-customer"}
)

// parse checks the signature the way the ServiceAuth middleware does before
// handing the claims to Authorize.
func parse(t *testing.T, raw string) *Claims {
	t.Helper()
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	return claims
}

func TestIssueAndAuthorize(t *testing.T) {
	t.Parallel()
	token, exp, err := NewIssuer("ms-transaction", testSecret, time.Minute).Issue("ms-customer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims := parse(t, token)
	require.NoError(t, NewVerifier("ms-customer", testSecret, allowList).Authorize(claims))
	assert.Equal(t, "ms-transaction", claims.Service())
	assert.Equal(t, "ms-transaction", claims.Issuer)
	assert.Contains(t, claims.Audience, "ms-customer")
	assert.NotNil(t, claims.IssuedAt)
}

func TestIssuedTokenExpires(t *testing.T) {
	t.Parallel()
	issuer := NewIssuer("ms-transaction", testSecret, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := issuer.Issue("ms-customer")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return testSecret, nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAuthorizeRejections(t *testing.T) {
	t.Parallel()
	verifier := NewVerifier("ms-customer", testSecret, allowList)
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	tests := []struct {
		name    string
		claims  *Claims
		wantErr error
	}{
		{"nil claims", nil, domain.ErrUnauthorized},
		{"no expiry", &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ms-transaction", Audience: jwt.ClaimStrings{"ms-customer"},
		}}, domain.ErrUnauthorized},
		{"wrong audience", &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ms-transaction", Audience: jwt.ClaimStrings{"ms-core"}, ExpiresAt: exp,
		}}, domain.ErrUnauthorized},
		{"caller not allowed", &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "ms-unknown", Audience: jwt.ClaimStrings{"ms-customer"}, ExpiresAt: exp,
		}}, domain.ErrForbidden},
		{"no subject", &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Audience: jwt.ClaimStrings{"ms-customer"}, ExpiresAt: exp,
		}}, domain.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := verifier.Authorize(tc.claims)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, errors.Is(tc.wantErr, domain.ErrUnauthorized), IsUnauthorized(err))
		})
	}
}

func TestSourceCachesUntilNearExpiry(t *testing.T) {
	t.Parallel()
	issuer := NewIssuer("ms-core", testSecret, time.Hour)
	now := time.Now()
	issuer.now = func() time.Time { return now }
	source := NewSource(issuer, "ms-transaction")
	ctx := context.Background()

	first, err := source.Token(ctx)
	require.NoError(t, err)
	second, err := source.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	now = now.Add(time.Hour - 10*time.Second)
	third, err := source.Token(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestSourceConcurrentCallers(t *testing.T) {
	t.Parallel()
	source := NewSource(NewIssuer("ms-core", testSecret, time.Hour), "ms-customer")

	var wg sync.WaitGroup
	tokens := make([]string, 20)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := source.Token(context.Background())
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	wg.Wait()
	for _, tok := range tokens {
		assert.NotEmpty(t, tok)
	}
}

func TestTransportAttachesBearerToken(t *testing.T) {
	t.Parallel()
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(
		NewSource(NewIssuer("ms-transaction", testSecret, time.Minute), "ms-customer"), nil,
	)}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.Contains(t, seen, "Bearer ")
	claims := parse(t, seen[len("Bearer "):])
	assert.NoError(t, NewVerifier("ms-customer", testSecret, allowList).Authorize(claims))
	assert.Empty(t, req.Header.Get("Authorization"))
}

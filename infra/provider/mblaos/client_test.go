package mblaos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/laokitchen/payflow/pkg/config"
	"github.com/laokitchen/payflow/pkg/domain/payment"
	"github.com/laokitchen/payflow/pkg/provider/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSealKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&config.Gateway{
		BaseUrl:     srv.URL,
		PhoneNumber: "2055512345",
		Password:    "s3cret",
		SealKey:     testSealKey,
		Currency:    "LAK",
		HTTPTimeout: 5 * time.Second,
	}, slog.Default())
	require.NoError(t, err)
	return c
}

func TestNew_BadSealKey(t *testing.T) {
	for _, key := range []string{"", "zz", "0011"} {
		_, err := New(&config.Gateway{SealKey: key}, slog.Default())
		assert.Error(t, err, "key %q", key)
	}
}

func TestLogin(t *testing.T) {
	var got loginRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, loginPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"csrfToken": "T1"})
	}))

	sess, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "T1", sess.CSRFToken)
	assert.Equal(t, "2055512345", got.Username)

	// The password travels sealed, never in the clear.
	assert.NotEqual(t, "s3cret", got.Password)
	_, err = base64.StdEncoding.DecodeString(got.Password)
	assert.NoError(t, err)
}

func TestLogin_FreshBlobPerCall(t *testing.T) {
	var blobs []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		blobs = append(blobs, req.Password)
		_ = json.NewEncoder(w).Encode(map[string]string{"csrfToken": "T"})
	}))

	for i := 0; i < 2; i++ {
		_, err := c.Login(context.Background())
		require.NoError(t, err)
	}
	require.Len(t, blobs, 2)
	assert.NotEqual(t, blobs[0], blobs[1])
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	_, err := c.Login(context.Background())
	require.ErrorContains(t, err, "missing csrfToken")
}

func TestCreateRedirectURL(t *testing.T) {
	var got redirectURLRequest
	var auth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, redirectURLPath, r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"redirectUrl": "mblaos://checkout/abc"})
	}))

	url, err := c.CreateRedirectURL(context.Background(), "T1", &gateway.RedirectParams{
		TransactionID: "X1",
		PhoneNumber:   "2055512345",
		ClientIP:      "127.0.0.1",
		SuccessURL:    "laokitchen://pay",
		Amount:        215000,
	})
	require.NoError(t, err)
	assert.Equal(t, "mblaos://checkout/abc", url)
	assert.Equal(t, "Bearer T1", auth)
	assert.Equal(t, "X1", got.TransactionID)
	assert.Equal(t, int64(215000), got.Amount)
	// Currency defaults from config when the caller leaves it empty.
	assert.Equal(t, "LAK", got.Currency)
}

func TestVerifyStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, verifyPath, r.URL.Path)
		_, _ = w.Write([]byte(`[{"transactionStatus":"SUCCESS","amount":10}]`))
	}))

	p, err := c.VerifyStatus(context.Background(), "T1", "X1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, p.Status)
	assert.Equal(t, 10.0, p.Amount)
}

func TestVerifyStatus_TokenExpired(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	_, err := c.VerifyStatus(context.Background(), "stale", "X1")
	require.ErrorIs(t, err, gateway.ErrTokenExpired)
}

func TestVerifyStatus_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err := c.VerifyStatus(context.Background(), "T1", "X1")
	require.Error(t, err)
	require.NotErrorIs(t, err, gateway.ErrTokenExpired)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "20****2345", mask("2055512345"))
}

// Package integration provides end-to-end tests for the envelope API,
// exercising the full stack: configuration, DI container, authentication,
// rate limiting, and the HTTP handlers.
package integration

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynpsss/labrador/internal/app"
	authService "github.com/ynpsss/labrador/internal/auth/service"
	"github.com/ynpsss/labrador/internal/config"
)

const (
	testClientName = "backend"
	testAppName    = "messaging"
	testPlatformID = "wx-app-42"
	// 16-byte AES key, base64 of "0123456789abcdef"
	testAppKey = "MDEyMzQ1Njc4OWFiY2RlZg=="
	// 32-byte AES key for the AEAD-capable app
	testFilesAppKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
)

// testStack holds the assembled application and the credentials to call it.
type testStack struct {
	container    *app.Container
	server       *httptest.Server
	clientSecret string
}

// generateRSAKeyPair returns a PKCS#1 private key PEM and a PKIX public key PEM.
func generateRSAKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	return string(privatePEM), string(publicPEM)
}

// setupStack builds the application from environment configuration and serves
// it through httptest. Rate limiting is configured by the caller.
func setupStack(t *testing.T, rateLimitEnabled bool, rps float64, burst int) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secretService := authService.NewSecretService()
	plainSecret, hashedSecret, err := secretService.GenerateSecret()
	require.NoError(t, err)

	privatePEM, publicPEM := generateRSAKeyPair(t)

	apps, err := json.Marshal([]map[string]string{
		{
			"name":            testAppName,
			"platform_id":     testPlatformID,
			"key":             testAppKey,
			"rsa_private_key": privatePEM,
			"rsa_public_key":  publicPEM,
			"hmac_secret":     "key",
		},
		{
			"name":        "files",
			"platform_id": "wx-app-43",
			"key":         testFilesAppKey,
		},
	})
	require.NoError(t, err)

	clients, err := json.Marshal([]map[string]string{
		{"name": testClientName, "secret_hash": hashedSecret},
	})
	require.NoError(t, err)

	t.Setenv("APPS", string(apps))
	t.Setenv("AUTH_CLIENTS", string(clients))
	t.Setenv("AUDIT_KEY", "integration-audit-key")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_ENABLED", fmt.Sprintf("%t", rateLimitEnabled))
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SEC", fmt.Sprintf("%f", rps))
	t.Setenv("RATE_LIMIT_BURST", fmt.Sprintf("%d", burst))

	cfg := config.Load()
	container := app.NewContainer(cfg)

	server, err := container.HTTPServer()
	require.NoError(t, err)

	httpServer := httptest.NewServer(server.GetHandler())
	t.Cleanup(httpServer.Close)

	return &testStack{
		container:    container,
		server:       httpServer,
		clientSecret: plainSecret,
	}
}

// makeRequest performs an HTTP request against the stack and returns the
// response and body. Authentication is attached when useAuth is true.
func (s *testStack) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	useAuth bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, s.server.URL+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if useAuth {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s:%s", testClientName, s.clientSecret))
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

func TestAPIHealthEndpoints(t *testing.T) {
	stack := setupStack(t, false, 0, 0)

	t.Run("health is public", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodGet, "/health", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "healthy")
	})

	t.Run("ready is public", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodGet, "/ready", nil, false)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "ready")
	})
}

func TestAPIAuthentication(t *testing.T) {
	stack := setupStack(t, false, 0, 0)
	path := fmt.Sprintf("/v1/apps/%s/messages/encrypt", testAppName)

	t.Run("missing credentials", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost, path,
			map[string]string{"plaintext": "hello"}, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, stack.server.URL+path,
			bytes.NewReader([]byte(`{"plaintext":"hello"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s:wrong-secret", testClientName))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid credentials", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost, path,
			map[string]string{"plaintext": "hello"}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAPIMessagePath(t *testing.T) {
	stack := setupStack(t, false, 0, 0)
	encryptPath := fmt.Sprintf("/v1/apps/%s/messages/encrypt", testAppName)
	decryptPath := fmt.Sprintf("/v1/apps/%s/messages/decrypt", testAppName)

	t.Run("round trip", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, encryptPath,
			map[string]string{"plaintext": "<xml>hello</xml>"}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var encrypted struct {
			Envelope string `json:"envelope"`
		}
		require.NoError(t, json.Unmarshal(body, &encrypted))
		require.NotEmpty(t, encrypted.Envelope)

		resp, body = stack.makeRequest(t, http.MethodPost, decryptPath,
			map[string]string{"envelope": encrypted.Envelope}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var decrypted struct {
			Plaintext string `json:"plaintext"`
		}
		require.NoError(t, json.Unmarshal(body, &decrypted))
		assert.Equal(t, "<xml>hello</xml>", decrypted.Plaintext)
	})

	t.Run("recipient mismatch rejected", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, encryptPath,
			map[string]string{"plaintext": "hello"}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var encrypted struct {
			Envelope string `json:"envelope"`
		}
		require.NoError(t, json.Unmarshal(body, &encrypted))

		resp, _ = stack.makeRequest(t, http.MethodPost, decryptPath,
			map[string]string{"envelope": encrypted.Envelope, "recipient_id": "other-app"}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unknown app", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost, "/v1/apps/missing/messages/encrypt",
			map[string]string{"plaintext": "hello"}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed envelope", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost, decryptPath,
			map[string]string{"envelope": "bm90IGEgdmFsaWQgZW52ZWxvcGU="}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestAPIDataPath(t *testing.T) {
	stack := setupStack(t, false, 0, 0)
	iv := base64.StdEncoding.EncodeToString([]byte("abcdefghijklmnop"))

	resp, body := stack.makeRequest(t, http.MethodPost,
		fmt.Sprintf("/v1/apps/%s/data/encrypt", testAppName),
		map[string]string{"plaintext": "card-6011", "iv": iv}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var encrypted struct {
		Ciphertext string `json:"ciphertext"`
	}
	require.NoError(t, json.Unmarshal(body, &encrypted))
	require.NotEmpty(t, encrypted.Ciphertext)

	resp, body = stack.makeRequest(t, http.MethodPost,
		fmt.Sprintf("/v1/apps/%s/data/decrypt", testAppName),
		map[string]string{"ciphertext": encrypted.Ciphertext, "iv": iv}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decrypted struct {
		Plaintext string `json:"plaintext"`
	}
	require.NoError(t, json.Unmarshal(body, &decrypted))
	assert.Equal(t, "card-6011", decrypted.Plaintext)
}

func TestAPIAEADPath(t *testing.T) {
	stack := setupStack(t, false, 0, 0)
	encryptPath := "/v1/apps/files/aead/encrypt"
	decryptPath := "/v1/apps/files/aead/decrypt"

	nonce := base64.StdEncoding.EncodeToString([]byte("123456789012"))
	aad := base64.StdEncoding.EncodeToString([]byte("header"))
	plaintext := base64.StdEncoding.EncodeToString([]byte("attachment body"))

	t.Run("round trip", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, encryptPath,
			map[string]string{"plaintext": plaintext, "nonce": nonce, "associated_data": aad}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var encrypted struct {
			Ciphertext string `json:"ciphertext"`
			Tag        string `json:"tag"`
		}
		require.NoError(t, json.Unmarshal(body, &encrypted))

		tag, err := base64.StdEncoding.DecodeString(encrypted.Tag)
		require.NoError(t, err)
		assert.Len(t, tag, 16)

		resp, body = stack.makeRequest(t, http.MethodPost, decryptPath, map[string]string{
			"ciphertext":      encrypted.Ciphertext,
			"tag":             encrypted.Tag,
			"nonce":           nonce,
			"associated_data": aad,
		}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var decrypted struct {
			Plaintext string `json:"plaintext"`
		}
		require.NoError(t, json.Unmarshal(body, &decrypted))
		assert.Equal(t, plaintext, decrypted.Plaintext)
	})

	t.Run("tampered tag rejected", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, encryptPath,
			map[string]string{"plaintext": plaintext, "nonce": nonce}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var encrypted struct {
			Ciphertext string `json:"ciphertext"`
			Tag        string `json:"tag"`
		}
		require.NoError(t, json.Unmarshal(body, &encrypted))

		resp, _ = stack.makeRequest(t, http.MethodPost, decryptPath, map[string]string{
			"ciphertext": encrypted.Ciphertext,
			"tag":        base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xff}, 16)),
			"nonce":      nonce,
		}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("app without 32-byte key rejected", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost,
			fmt.Sprintf("/v1/apps/%s/aead/encrypt", testAppName),
			map[string]string{"plaintext": plaintext, "nonce": nonce}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestAPISignatures(t *testing.T) {
	stack := setupStack(t, false, 0, 0)

	t.Run("rsa sign and verify", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, "/v1/signatures/rsa",
			map[string]string{"app": testAppName, "content": "callback-payload", "key_encoding": "pkcs1"}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var signed struct {
			Signature string `json:"signature"`
		}
		require.NoError(t, json.Unmarshal(body, &signed))
		require.NotEmpty(t, signed.Signature)

		resp, body = stack.makeRequest(t, http.MethodPost, "/v1/signatures/rsa/verify",
			map[string]string{"app": testAppName, "content": "callback-payload", "signature": signed.Signature}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var verified struct {
			Valid bool `json:"valid"`
		}
		require.NoError(t, json.Unmarshal(body, &verified))
		assert.True(t, verified.Valid)

		resp, body = stack.makeRequest(t, http.MethodPost, "/v1/signatures/rsa/verify",
			map[string]string{"app": testAppName, "content": "altered-payload", "signature": signed.Signature}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &verified))
		assert.False(t, verified.Valid)
	})

	t.Run("hmac sign", func(t *testing.T) {
		resp, body := stack.makeRequest(t, http.MethodPost, "/v1/signatures/hmac",
			map[string]string{"app": testAppName, "message": "The quick brown fox jumps over the lazy dog"}, true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var signed struct {
			Signature string `json:"signature"`
		}
		require.NoError(t, json.Unmarshal(body, &signed))
		assert.Equal(t,
			"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
			signed.Signature,
		)
	})

	t.Run("app without signing material", func(t *testing.T) {
		resp, _ := stack.makeRequest(t, http.MethodPost, "/v1/signatures/hmac",
			map[string]string{"app": "files", "message": "hello"}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestAPIRateLimiting(t *testing.T) {
	stack := setupStack(t, true, 0.001, 2)
	path := fmt.Sprintf("/v1/apps/%s/messages/encrypt", testAppName)
	body := map[string]string{"plaintext": "hello"}

	resp, _ := stack.makeRequest(t, http.MethodPost, path, body, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = stack.makeRequest(t, http.MethodPost, path, body, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = stack.makeRequest(t, http.MethodPost, path, body, true)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestAPIMetricsExposed(t *testing.T) {
	stack := setupStack(t, false, 0, 0)

	resp, _ := stack.makeRequest(t, http.MethodPost,
		fmt.Sprintf("/v1/apps/%s/messages/encrypt", testAppName),
		map[string]string{"plaintext": "hello"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsServer, err := stack.container.MetricsServer()
	require.NoError(t, err)
	require.NotNil(t, metricsServer)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "message_encrypt")
}

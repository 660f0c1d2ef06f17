package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

func TestDirectKey(t *testing.T) {
	t.Run("キーがあればそのまま資格情報になる", func(t *testing.T) {
		cred, err := DirectKey("my-api-key")
		require.NoError(t, err)
		assert.Equal(t, "my-api-key", cred.APIKey)
	})

	t.Run("空キーは ValidationError", func(t *testing.T) {
		_, err := DirectKey("")
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func exchangeServer(t *testing.T, handler http.HandlerFunc) *KeyExchanger {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e, err := NewKeyExchanger(srv.URL, srv.Client())
	require.NoError(t, err)
	return e
}

func TestKeyExchanger_ExchangeKey(t *testing.T) {
	ctx := context.Background()

	t.Run("合言葉が一致すればサーバー保持のキーを受け取る", func(t *testing.T) {
		e := exchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req exchangeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "open-sesame", req.Password)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			json.NewEncoder(w).Encode(exchangeResponse{APIKey: "server-held-key"})
		})

		cred, err := e.ExchangeKey(ctx, "open-sesame")

		require.NoError(t, err)
		assert.Equal(t, "server-held-key", cred.APIKey)
	})

	t.Run("不一致は AuthorizationError", func(t *testing.T) {
		e := exchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := e.ExchangeKey(ctx, "wrong")
		assert.True(t, errors.Is(err, domain.ErrAuthorization), "got: %v", err)
	})

	t.Run("サーバー側の秘密未設定は ConfigurationError", func(t *testing.T) {
		e := exchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := e.ExchangeKey(ctx, "open-sesame")
		assert.True(t, errors.Is(err, domain.ErrConfiguration), "got: %v", err)
	})

	t.Run("空の合言葉は送信前に ValidationError", func(t *testing.T) {
		called := false
		e := exchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := e.ExchangeKey(ctx, "")

		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.False(t, called, "エンドポイントは呼ばれないべき")
	})

	t.Run("キーを含まない応答は MalformedResponse", func(t *testing.T) {
		e := exchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})

		_, err := e.ExchangeKey(ctx, "open-sesame")
		assert.True(t, errors.Is(err, domain.ErrMalformedResponse), "got: %v", err)
	})

	t.Run("接続失敗は TransportError", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close() // 先に閉じて到達不能にする

		e, err := NewKeyExchanger(url, nil)
		require.NoError(t, err)

		_, err = e.ExchangeKey(ctx, "open-sesame")
		assert.True(t, errors.Is(err, domain.ErrTransport), "got: %v", err)
	})

	t.Run("エンドポイント未設定は ConfigurationError", func(t *testing.T) {
		_, err := NewKeyExchanger("", nil)
		assert.True(t, errors.Is(err, domain.ErrConfiguration))
	})
}

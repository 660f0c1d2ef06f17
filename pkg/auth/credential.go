// Package auth は動画生成 API の資格情報取得を担当します。
// 利用者が直接入力した API キーをそのまま使う経路と、合言葉を検証エンドポイントに
// 照合してサーバー保持のキーを受け取る経路の2つを提供します。
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

const exchangeTimeout = 15 * time.Second

// Credential は確定済みの API キーを保持します。
type Credential struct {
	APIKey string
}

// DirectKey は利用者入力の API キーをそのまま資格情報として採用します。
func DirectKey(apiKey string) (Credential, error) {
	if apiKey == "" {
		return Credential{}, fmt.Errorf("%w: API キーが空です", domain.ErrValidation)
	}
	return Credential{APIKey: apiKey}, nil
}

// KeyExchanger は合言葉をステートレスな検証エンドポイントへ照合し、
// 一致した場合のみサーバー保持の API キーを受け取ります。
type KeyExchanger struct {
	endpoint string
	client   *http.Client
}

// NewKeyExchanger は KeyExchanger を初期化します。httpClient が nil の場合は
// 既定タイムアウト付きクライアントを使います。
func NewKeyExchanger(endpoint string, httpClient *http.Client) (*KeyExchanger, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: 検証エンドポイントが設定されていません", domain.ErrConfiguration)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: exchangeTimeout}
	}
	return &KeyExchanger{endpoint: endpoint, client: httpClient}, nil
}

type exchangeRequest struct {
	Password string `json:"password"`
}

type exchangeResponse struct {
	APIKey string `json:"apiKey"`
	Error  string `json:"error,omitempty"`
}

// ExchangeKey は合言葉を照合して API キーを取得します。
// 不一致は AuthorizationError、サーバー側の秘密未設定は ConfigurationError になります。
func (e *KeyExchanger) ExchangeKey(ctx context.Context, password string) (Credential, error) {
	if password == "" {
		return Credential{}, fmt.Errorf("%w: 合言葉が空です", domain.ErrValidation)
	}

	body, err := json.Marshal(exchangeRequest{Password: password})
	if err != nil {
		return Credential{}, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return Credential{}, fmt.Errorf("リクエストの組み立てに失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("検証エンドポイントへの接続に失敗しました: %w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Credential{}, fmt.Errorf("応答の読み取りに失敗しました: %w: %w", domain.ErrTransport, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return Credential{}, fmt.Errorf("%w: 合言葉が一致しません", domain.ErrAuthorization)
	case http.StatusInternalServerError:
		return Credential{}, fmt.Errorf("%w: サーバー側に共有秘密が設定されていません", domain.ErrConfiguration)
	default:
		return Credential{}, fmt.Errorf("%w: 検証エンドポイントが予期しない状態を返しました (status: %d)", domain.ErrUpstream, resp.StatusCode)
	}

	var out exchangeResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return Credential{}, fmt.Errorf("%w: 応答を解釈できません: %w", domain.ErrMalformedResponse, err)
	}
	if out.APIKey == "" {
		return Credential{}, fmt.Errorf("%w: 応答に API キーが含まれていません", domain.ErrMalformedResponse)
	}

	return Credential{APIKey: out.APIKey}, nil
}

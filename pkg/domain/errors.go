package domain

import (
	"errors"
	"fmt"
	"strings"
)

// 失敗分類の番兵エラー群です。詳細を持つエラー型は必ずいずれかに Unwrap され、
// 呼び出し側は errors.Is で分類を、errors.As で詳細を取り出せます。
var (
	ErrValidation        = errors.New("invalid input")
	ErrTransport         = errors.New("transport failure")
	ErrSafetyFiltered    = errors.New("safety filtered")
	ErrUpstream          = errors.New("upstream error")
	ErrEmptyResult       = errors.New("empty result")
	ErrMalformedResponse = errors.New("malformed response")
	ErrDownloadFailed    = errors.New("download failed")
	ErrAuthorization     = errors.New("unauthorized")
	ErrConfiguration     = errors.New("configuration missing")
)

// SafetyFilteredError はバックエンドの安全フィルターによる拒否です。
// Reason にはフィルター理由が格納され、プロンプトの修正を促す用途に使います。
type SafetyFilteredError struct {
	Reason string
}

func (e *SafetyFilteredError) Error() string {
	return fmt.Sprintf("安全フィルターにより動画生成がブロックされました: %s", e.Reason)
}

func (e *SafetyFilteredError) Unwrap() error { return ErrSafetyFiltered }

// UpstreamError はバックエンドがオペレーションに付与したトップレベルのエラーです。
// Message はバックエンドの文言をそのまま保持します。
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("動画生成バックエンドがエラーを返しました: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// EmptyResultError は生成動画リストが空（または欠落）だった場合の失敗です。
// 原因はサイレントな安全フィルタリングである可能性が高いことを利用者に伝えます。
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "動画が生成されませんでした。安全フィルターにより出力が抑制された可能性があります。プロンプトを変えて再試行してください"
}

func (e *EmptyResultError) Unwrap() error { return ErrEmptyResult }

// MalformedResponseError は成功とも失敗とも判定できない応答形状です。
type MalformedResponseError struct{}

func (e *MalformedResponseError) Error() string {
	return "バックエンド応答に結果ロケータが含まれていません。診断ログを確認してください"
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// invalidKeySentinel は API キー拒否時にバックエンドが返す文言の一部です。
// 構造化コードを持たない古い応答へのフォールバック判定にのみ使います。
const invalidKeySentinel = "API key not valid"

// IsCredentialRejection は、処理途中で資格情報が拒否されたかどうかを判定します。
// 構造化エラーコード (401/403) を優先し、コードが無い場合のみ文言で判定します。
func IsCredentialRejection(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		if ue.Code == 401 || ue.Code == 403 {
			return true
		}
		if strings.Contains(ue.Message, invalidKeySentinel) {
			return true
		}
	}
	return errors.Is(err, ErrAuthorization)
}

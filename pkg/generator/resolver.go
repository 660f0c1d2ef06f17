package generator

import (
	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// classifyOperation は完了済みオペレーションを5分類の閉じた判定で解決します。
// バックエンドの失敗通知は原因ごとに形が揃っていない（フィルタータグ、トップレベル
// エラー、単なる空リスト）ため、ここで応答形状ごとに一意のエラー分類へ正規化します。
// 判定は最終状態のみに依存する純関数であり、同じオペレーションには常に同じ結果を返します。
//
// 判定順（先勝ち）:
//  1. 結果ロケータ（URI または inline バイト）を持つ生成動画あり → 成功
//  2. 生成動画エントリはあるが安全フィルター理由が付与されている → SafetyFiltered
//  3. オペレーションにトップレベルエラーあり → Upstream（文言はそのまま保持）
//  4. 生成動画リストが空または欠落 → EmptyResult
//  5. それ以外（理由不明でロケータ欠落） → MalformedResponse
func classifyOperation(op *genai.GenerateVideosOperation) (*genai.Video, error) {
	resp := op.Response

	if resp != nil && len(resp.GeneratedVideos) > 0 {
		if video := resp.GeneratedVideos[0].Video; video != nil && (video.URI != "" || len(video.VideoBytes) > 0) {
			return video, nil
		}
		if len(resp.RAIMediaFilteredReasons) > 0 {
			return nil, &domain.SafetyFilteredError{Reason: resp.RAIMediaFilteredReasons[0]}
		}
	}

	if op.Error != nil {
		return nil, &domain.UpstreamError{
			Code:    errorCode(op.Error),
			Message: errorMessage(op.Error),
		}
	}

	if resp == nil || len(resp.GeneratedVideos) == 0 {
		return nil, &domain.EmptyResultError{}
	}

	return nil, &domain.MalformedResponseError{}
}

// errorMessage はオペレーションエラーのペイロードから message を取り出します。
func errorMessage(payload map[string]any) string {
	if msg, ok := payload["message"].(string); ok {
		return msg
	}
	return "unknown error"
}

// errorCode はオペレーションエラーのペイロードから数値コードを取り出します。
// JSON 経由のため数値は float64 で届きます。
func errorCode(payload map[string]any) int {
	switch v := payload["code"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Package prompt はアニメーション指示プロンプトの事前リファインを担当します。
// 送信前の任意ステップであり、失敗しても元のプロンプトで生成を続行できます。
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// refineInstruction はテキストモデルに与える書き換え指示です。
const refineInstruction = "次のテキストを、動画生成AIに渡すための具体的で映像的なアニメーション指示に書き直してください。" +
	"カメラワーク・動き・雰囲気を補い、1段落のプレーンテキストのみを返してください。\n\n"

// TextModel はリファインに必要なテキスト生成の最小面です。
// gemini.GenerativeModel はこのインターフェースを満たします。
type TextModel interface {
	GenerateContent(ctx context.Context, model, prompt string) (*gemini.Response, error)
}

// Refiner はテキストモデルを使ってプロンプトを整えます。
type Refiner struct {
	aiClient TextModel
	model    string
}

// NewRefiner は Refiner を初期化します。
func NewRefiner(aiClient TextModel, model string) (*Refiner, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (TextModel) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	return &Refiner{aiClient: aiClient, model: model}, nil
}

// Refine はユーザー入力のプロンプトを映像指示向けに書き直して返します。
// モデルから有効なテキストが得られない場合は元のプロンプトをそのまま返します。
func (r *Refiner) Refine(ctx context.Context, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("プロンプトが空です")
	}

	resp, err := r.aiClient.GenerateContent(ctx, r.model, refineInstruction+raw)
	if err != nil {
		return "", fmt.Errorf("プロンプトのリファインに失敗しました: %w", err)
	}

	refined := extractText(resp)
	if refined == "" {
		slog.WarnContext(ctx, "リファイン結果が空のため元のプロンプトを使用します")
		return raw, nil
	}

	return refined, nil
}

// extractText はレスポンスから最初のテキストパートを取り出します。
func extractText(resp *gemini.Response) string {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return ""
	}

	candidate := resp.RawResponse.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			return strings.TrimSpace(part.Text)
		}
	}
	return ""
}

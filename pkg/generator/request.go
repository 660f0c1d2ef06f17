package generator

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// builtRequest は Veo API 呼び出し1回分に整形済みのリクエストです。
type builtRequest struct {
	model  string
	prompt string
	image  *genai.Image
	config *genai.GenerateVideosConfig
}

// validateRequest は生成要求の形状を検証します。
// 画像枚数の不変条件（1〜3枚）はここで保証され、ビルダー本体は枚数のみで分岐します。
func validateRequest(req domain.VideoGenerationRequest) error {
	if req.Prompt == "" {
		return fmt.Errorf("%w: プロンプトが空です", domain.ErrValidation)
	}
	if len(req.Images) == 0 {
		return fmt.Errorf("%w: 入力画像がありません", domain.ErrValidation)
	}
	if len(req.Images) > maxReferenceImages {
		return fmt.Errorf("%w: 入力画像は最大%d枚です (指定: %d枚)", domain.ErrValidation, maxReferenceImages, len(req.Images))
	}
	return nil
}

// buildVideoRequest はドメインの要求をバックエンドのリクエスト形状に変換します。
// 1枚なら主画像フィールド + 高速モデル、2〜3枚なら参照アセットリスト + 参照対応モデル。
// モデルの切り替えはバックエンドの機能制約であり、省略すると参照リクエストが拒否されます。
func buildVideoRequest(req domain.VideoGenerationRequest) builtRequest {
	config := &genai.GenerateVideosConfig{
		AspectRatio:    string(req.AspectRatio),
		NumberOfVideos: numberOfVideos,
		Resolution:     resolution720p,
		NegativePrompt: req.NegativePrompt,
		Seed:           seedToPtrInt32(req.Seed),
	}

	if len(req.Images) == 1 {
		return builtRequest{
			model:  ModelFast,
			prompt: req.Prompt,
			image:  toGenaiImage(req.Images[0]),
			config: config,
		}
	}

	refs := make([]*genai.VideoGenerationReferenceImage, 0, len(req.Images))
	for _, img := range req.Images {
		refs = append(refs, &genai.VideoGenerationReferenceImage{
			Image:         toGenaiImage(img),
			ReferenceType: genai.VideoGenerationReferenceTypeAsset,
		})
	}
	config.ReferenceImages = refs

	return builtRequest{
		model:  ModelReference,
		prompt: req.Prompt,
		config: config,
	}
}

// toGenaiImage はドメインの ImageInput を SDK の Image に変換します。
func toGenaiImage(img domain.ImageInput) *genai.Image {
	return &genai.Image{
		ImageBytes: img.Data,
		MIMEType:   img.MIMEType,
	}
}

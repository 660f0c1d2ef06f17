package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// GeminiVideoGenerator は検証・リクエスト整形・送信・ポーリング・結果解決までを
// 一括で行う統合ジェネレーターです。
type GeminiVideoGenerator struct {
	core   VideoResultCore
	model  VideoModel
	poller *OperationPoller
}

// NewGeminiVideoGenerator は依存関係を注入して GeminiVideoGenerator を初期化します。
func NewGeminiVideoGenerator(core VideoResultCore, model VideoModel) (*GeminiVideoGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (VideoResultCore) is required")
	}
	if model == nil {
		return nil, fmt.Errorf("model (VideoModel) is required")
	}

	poller, err := NewOperationPoller(model)
	if err != nil {
		return nil, err
	}

	return &GeminiVideoGenerator{
		core:   core,
		model:  model,
		poller: poller,
	}, nil
}

// GenerateVideo は動画生成要求を完了まで実行し、取得済みの動画データを返します。
// 同一リクエストの並行再実行は想定していません。再送抑止は呼び出し側の責務です。
func (g *GeminiVideoGenerator) GenerateVideo(ctx context.Context, req domain.VideoGenerationRequest, progress ProgressFunc) (*domain.VideoResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	built := buildVideoRequest(req)
	slog.InfoContext(ctx, "Veo動画生成リクエストを送信します",
		"model", built.model, "images", len(req.Images), "aspect_ratio", req.AspectRatio)

	op, err := g.model.GenerateVideos(ctx, built.model, built.prompt, built.image, built.config)
	if err != nil {
		return nil, fmt.Errorf("動画生成リクエストの送信に失敗しました: %w: %w", domain.ErrTransport, err)
	}

	op, err = g.poller.PollUntilDone(ctx, op, progress)
	if err != nil {
		return nil, err
	}

	video, err := classifyOperation(op)
	if err != nil {
		return nil, err
	}

	emit(progress, fetchingMessage)
	resp, err := g.core.DownloadVideo(ctx, video)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "動画生成が完了しました", "bytes", len(resp.Data), "mime_type", resp.MimeType)
	return resp, nil
}

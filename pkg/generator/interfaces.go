package generator

import (
	"context"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// VideoModel は Veo 系モデルとの通信（生成リクエスト送信とオペレーション状態取得）を
// 抽象化するインターフェースです。
type VideoModel interface {
	// GenerateVideos は生成リクエストを送信し、進行中オペレーションのハンドルを返します。
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	// GetVideosOperation はオペレーションの最新状態を再取得します。
	GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// VideoGenerator はビジネスロジック層が利用する統合窓口です。
type VideoGenerator interface {
	GenerateVideo(ctx context.Context, req domain.VideoGenerationRequest, progress ProgressFunc) (*domain.VideoResponse, error)
}

// VideoResultCore は解決済みオペレーションから動画バイナリを取得する責務です。
type VideoResultCore interface {
	DownloadVideo(ctx context.Context, video *genai.Video) (*domain.VideoResponse, error)
}

// ImageLoader は入力画像ソース（ローカルパス、https URL、gs:// URI）の読み込みを担当します。
type ImageLoader interface {
	LoadImageInput(ctx context.Context, source string) (domain.ImageInput, error)
}

// ProgressFunc は進捗メッセージの通知先です。nil の場合は通知をスキップします。
type ProgressFunc func(message string)

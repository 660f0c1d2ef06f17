package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/imgutil"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// HTTPFetcher は GeminiVideoCore が利用する HTTP クライアントの最小インターフェースです。
// go-http-kit の httpkit.ClientInterface のうち、実際に使用する FetchBytes のみを要求します。
type HTTPFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// GeminiVideoCore は入力画像の読み込みと結果動画の取得を担う基盤コンポーネントです。
// ImageLoader と VideoResultCore の両方の責務を持ちます。
type GeminiVideoCore struct {
	reader     remoteio.InputReader
	httpClient HTTPFetcher
	apiKey     string
}

// NewGeminiVideoCore は依存関係を注入して GeminiVideoCore を初期化します。
func NewGeminiVideoCore(reader remoteio.InputReader, httpClient HTTPFetcher, apiKey string) (*GeminiVideoCore, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API キーが設定されていません", domain.ErrConfiguration)
	}

	return &GeminiVideoCore{
		reader:     reader,
		httpClient: httpClient,
		apiKey:     apiKey,
	}, nil
}

// LoadImageInput はローカルパス・https URL・gs:// URI のいずれかから画像を読み込み、
// 必要に応じて JPEG 再圧縮した上で ImageInput に変換します。
func (c *GeminiVideoCore) LoadImageInput(ctx context.Context, source string) (domain.ImageInput, error) {
	data, err := c.fetchImageData(ctx, source)
	if err != nil {
		return domain.ImageInput{}, err
	}

	finalData := data
	if compressed, err := imgutil.ShrinkIfOversized(data, compressionThreshold, imageCompressionQuality); err == nil {
		finalData = compressed
	}

	mimeType := http.DetectContentType(finalData)
	if !strings.HasPrefix(mimeType, "image/") {
		return domain.ImageInput{}, fmt.Errorf("%w: 画像ではないデータが指定されました (%s): %s", domain.ErrValidation, mimeType, source)
	}

	return domain.ImageInput{Data: finalData, MIMEType: mimeType}, nil
}

// DownloadVideo は解決済みの動画ハンドルからバイナリを取得します。
// inline バイトが既にあればそのまま使い、URI のみの場合は key パラメータを付与した
// 認証付き GET で取得します。取得失敗は生成失敗の分類とは区別して返します。
func (c *GeminiVideoCore) DownloadVideo(ctx context.Context, video *genai.Video) (*domain.VideoResponse, error) {
	if video == nil {
		return nil, &domain.MalformedResponseError{}
	}

	mimeType := video.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	if len(video.VideoBytes) > 0 {
		return &domain.VideoResponse{Data: video.VideoBytes, MimeType: mimeType, URI: video.URI}, nil
	}

	fetchURL, err := withAPIKey(video.URI, c.apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: 結果ロケータを解釈できません: %w", domain.ErrDownloadFailed, err)
	}

	data, err := c.httpClient.FetchBytes(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("動画のダウンロードに失敗しました: %w: %w", domain.ErrDownloadFailed, err)
	}

	return &domain.VideoResponse{Data: data, MimeType: mimeType, URI: video.URI}, nil
}

// fetchImageData はソース表記に応じた読み込み手段を選択します。
func (c *GeminiVideoCore) fetchImageData(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "gs://"):
		rc, err := c.reader.Open(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("gs:// からの読み込みに失敗しました: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if safe, err := IsSafeURL(source); err != nil || !safe {
			return nil, fmt.Errorf("%w: 安全ではないURLが指定されました: %w", domain.ErrValidation, err)
		}
		return c.httpClient.FetchBytes(ctx, source)

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("ローカルファイルの読み込みに失敗しました: %w", err)
		}
		return data, nil
	}
}

// withAPIKey はロケータ URL に key クエリパラメータを付与します。
func withAPIKey(rawURL, apiKey string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// genaiVideoModel は *genai.Client を VideoModel に適合させるアダプターです。
type genaiVideoModel struct {
	client *genai.Client
}

// NewGenaiVideoModel は Gemini API クライアントを VideoModel として包みます。
func NewGenaiVideoModel(client *genai.Client) (VideoModel, error) {
	if client == nil {
		return nil, fmt.Errorf("client (*genai.Client) is required")
	}
	return &genaiVideoModel{client: client}, nil
}

func (m *genaiVideoModel) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	return m.client.Models.GenerateVideos(ctx, model, prompt, image, config)
}

func (m *genaiVideoModel) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return m.client.Operations.GetVideosOperation(ctx, op, nil)
}

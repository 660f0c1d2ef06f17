package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/auth"
	"github.com/shouni/gemini-video-kit/pkg/config"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/generator"
	"github.com/shouni/gemini-video-kit/pkg/prompt"
	"github.com/shouni/gemini-video-kit/pkg/share"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

var (
	promptText     string
	negativePrompt string
	imageSources   cli.StringSlice
	aspect         string
	seed           int64
	outputPath     string
	password       string
	shareToDrive   bool
	refinePrompt   bool
)

var generateCommand = &cli.Command{
	Name:  "generate",
	Usage: "Generate a video from 1-3 photos and an animation prompt",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Usage:       "Animation prompt",
			Aliases:     []string{"p"},
			Destination: &promptText,
			Required:    true,
		},
		&cli.StringSliceFlag{
			Name:        "image",
			Usage:       "Input image (local path, https URL or gs:// URI). Repeat up to 3 times",
			Aliases:     []string{"i"},
			Destination: &imageSources,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "aspect",
			Usage:       "Aspect ratio: 16:9 or 9:16",
			Aliases:     []string{"a"},
			Destination: &aspect,
			Value:       string(domain.AspectRatioWide),
		},
		&cli.StringFlag{
			Name:        "negative-prompt",
			Usage:       "Content to avoid in the generated video",
			Destination: &negativePrompt,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "Fixed seed (omit for random)",
			Destination: &seed,
			Value:       -1,
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Output file path",
			Aliases:     []string{"o"},
			Destination: &outputPath,
			Value:       "output.mp4",
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Passphrase for the key exchange endpoint (used when GEMINI_API_KEY is not set)",
			Destination: &password,
		},
		&cli.BoolFlag{
			Name:        "share",
			Usage:       "Upload the result to Google Drive and print a share link",
			Destination: &shareToDrive,
		},
		&cli.BoolFlag{
			Name:        "refine",
			Usage:       "Rewrite the prompt into a cinematic animation instruction before submitting",
			Destination: &refinePrompt,
		},
	},
	Action: runGenerate,
}

func runGenerate(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()

	cred, err := resolveCredential(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cred.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	model, err := generator.NewGenaiVideoModel(client)
	if err != nil {
		return err
	}

	core, err := generator.NewGeminiVideoCore(&gcsReader{}, &httpFetcher{client: http.DefaultClient}, cred.APIKey)
	if err != nil {
		return err
	}

	gen, err := generator.NewGeminiVideoGenerator(core, model)
	if err != nil {
		return err
	}

	finalPrompt := promptText
	if refinePrompt {
		refiner, err := prompt.NewRefiner(&genaiTextModel{client: client}, cfg.RefinerModel)
		if err != nil {
			return err
		}
		refined, err := refiner.Refine(ctx, promptText)
		if err != nil {
			slog.Warn("プロンプトのリファインに失敗したため元の文面で続行します", "error", err)
		} else {
			finalPrompt = refined
		}
	}

	req := domain.VideoGenerationRequest{
		Prompt:         finalPrompt,
		NegativePrompt: negativePrompt,
		AspectRatio:    domain.AspectRatio(aspect),
		Seed:           seedFlag(seed),
	}
	for _, source := range imageSources.Value() {
		img, err := core.LoadImageInput(ctx, source)
		if err != nil {
			return err
		}
		req.Images = append(req.Images, img)
	}

	resp, err := gen.GenerateVideo(ctx, req, func(message string) {
		fmt.Fprintln(os.Stderr, message)
	})
	if err != nil {
		if domain.IsCredentialRejection(err) {
			return fmt.Errorf("資格情報が拒否されました。API キーまたは合言葉を確認してください: %w", err)
		}
		return err
	}

	if err := os.WriteFile(outputPath, resp.Data, 0o644); err != nil {
		return fmt.Errorf("動画の保存に失敗しました: %w", err)
	}
	slog.Info("動画を保存しました", "path", outputPath, "bytes", len(resp.Data))

	if shareToDrive {
		return shareVideo(ctx, cfg, resp)
	}
	return nil
}

// resolveCredential は API キー直接指定と合言葉交換のどちらかで資格情報を確定します。
func resolveCredential(ctx context.Context, cfg config.Config) (auth.Credential, error) {
	if cfg.APIKey != "" {
		return auth.DirectKey(cfg.APIKey)
	}

	exchanger, err := auth.NewKeyExchanger(cfg.AuthEndpoint, nil)
	if err != nil {
		return auth.Credential{}, fmt.Errorf("GEMINI_API_KEY か VIDEO_KIT_AUTH_ENDPOINT のいずれかが必要です: %w", err)
	}
	return exchanger.ExchangeKey(ctx, password)
}

// shareVideo は保存済みの動画を Drive へ共有し、リンクを表示します。
func shareVideo(ctx context.Context, cfg config.Config, resp *domain.VideoResponse) error {
	ts, err := driveTokenSource(cfg.DriveTokenFile)
	if err != nil {
		return err
	}

	api, err := share.NewDriveAPI(ctx, ts)
	if err != nil {
		return err
	}
	sharer, err := share.NewDriveSharer(api)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("generated-video-%s.mp4", time.Now().Format("20060102-150405"))
	result, err := sharer.Share(ctx, name, resp.MimeType, bytes.NewReader(resp.Data))
	if err != nil {
		return err
	}

	fmt.Println(result.ShareURL)
	return nil
}

// driveTokenSource は保存済み OAuth2 トークンから TokenSource を作ります。
func driveTokenSource(tokenFile string) (oauth2.TokenSource, error) {
	if tokenFile == "" {
		return nil, fmt.Errorf("%w: VIDEO_KIT_DRIVE_TOKEN_FILE が設定されていません", domain.ErrConfiguration)
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("Driveトークンの読み込みに失敗しました: %w", err)
	}

	token := &oauth2.Token{AccessToken: strings.TrimSpace(string(raw))}
	return oauth2.StaticTokenSource(token), nil
}

func seedFlag(v int64) *int64 {
	if v < 0 {
		return nil
	}
	return &v
}

// httpFetcher は httpkit.ClientInterface 互換の最小 HTTP クライアントです。
// 非 2xx 応答はエラーとして返します。
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// genaiTextModel は *genai.Client を prompt.TextModel に適合させるアダプターです。
type genaiTextModel struct {
	client *genai.Client
}

func (m *genaiTextModel) GenerateContent(ctx context.Context, model, promptText string) (*gemini.Response, error) {
	resp, err := m.client.Models.GenerateContent(ctx, model, genai.Text(promptText), nil)
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

// gcsReader は remoteio.InputReader 互換の GCS リーダーです。
type gcsReader struct{}

func (r *gcsReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, object, err := splitGCSURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Bucket(bucket).Object(object).NewReader(ctx)
}

func (r *gcsReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return errors.New("list is not supported")
}

func splitGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("不正な gs:// URI です: %s", uri)
	}
	return parts[0], parts[1], nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := &cli.App{
		Name:     "gemini-video-kit",
		Usage:    "Turn photos into a generated video with the Veo models",
		Commands: []*cli.Command{generateCommand},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("実行に失敗しました", "error", err)
		os.Exit(1)
	}
}

package generator

import (
	"bytes"
	"context"
	"io"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// --- Mocks ---

type mockVideoModel struct {
	generateFunc  func(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	getFunc       func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
	generateCalls int
	getCalls      int
}

func (m *mockVideoModel) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	m.generateCalls++
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, prompt, image, config)
	}
	return &genai.GenerateVideosOperation{Name: "operations/mock", Done: false}, nil
}

func (m *mockVideoModel) GetVideosOperation(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	m.getCalls++
	if m.getFunc != nil {
		return m.getFunc(ctx, op)
	}
	return op, nil
}

type mockHTTPClient struct {
	data    []byte
	err     error
	lastURL string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.lastURL = url
	return m.data, m.err
}

type mockReader struct {
	data []byte
	err  error
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockResultCore struct {
	downloadFunc  func(ctx context.Context, video *genai.Video) (*domain.VideoResponse, error)
	downloadCalls int
}

func (m *mockResultCore) DownloadVideo(ctx context.Context, video *genai.Video) (*domain.VideoResponse, error) {
	m.downloadCalls++
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, video)
	}
	return &domain.VideoResponse{Data: []byte("mp4-data"), MimeType: "video/mp4"}, nil
}

// doneOperation は成功形状の完了済みオペレーションを作ります。
func doneOperation(uri string) *genai.GenerateVideosOperation {
	return &genai.GenerateVideosOperation{
		Name: "operations/done",
		Done: true,
		Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{
				{Video: &genai.Video{URI: uri, MIMEType: "video/mp4"}},
			},
		},
	}
}

package generator

import (
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

func TestClassifyOperation(t *testing.T) {
	t.Run("結果ロケータ付きの生成動画があれば成功", func(t *testing.T) {
		op := doneOperation("https://example.com/video.mp4")

		video, err := classifyOperation(op)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if video.URI != "https://example.com/video.mp4" {
			t.Errorf("unexpected URI: %s", video.URI)
		}
	})

	t.Run("inline バイトのみでも成功", func(t *testing.T) {
		op := &genai.GenerateVideosOperation{
			Done: true,
			Response: &genai.GenerateVideosResponse{
				GeneratedVideos: []*genai.GeneratedVideo{
					{Video: &genai.Video{VideoBytes: []byte("mp4"), MIMEType: "video/mp4"}},
				},
			},
		}

		video, err := classifyOperation(op)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(video.VideoBytes) == 0 {
			t.Error("inline バイトが返るべき")
		}
	})

	t.Run("フィルター理由付きエントリは SafetyFiltered で取得を試みない", func(t *testing.T) {
		op := &genai.GenerateVideosOperation{
			Done: true,
			Response: &genai.GenerateVideosResponse{
				GeneratedVideos:         []*genai.GeneratedVideo{{Video: &genai.Video{}}},
				RAIMediaFilteredReasons: []string{"violence"},
			},
		}

		video, err := classifyOperation(op)

		if video != nil {
			t.Error("動画ハンドルは返らないべき")
		}
		if !errors.Is(err, domain.ErrSafetyFiltered) {
			t.Fatalf("SafetyFiltered であるべき: %v", err)
		}
		var sfe *domain.SafetyFilteredError
		if !errors.As(err, &sfe) || sfe.Reason != "violence" {
			t.Errorf("フィルター理由を保持すべき: %v", err)
		}
	})

	t.Run("トップレベルエラーは Upstream で文言をそのまま保持", func(t *testing.T) {
		op := &genai.GenerateVideosOperation{
			Done:  true,
			Error: map[string]any{"code": float64(400), "message": "quota exceeded"},
		}

		_, err := classifyOperation(op)

		if !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("UpstreamError であるべき: %v", err)
		}
		var ue *domain.UpstreamError
		if !errors.As(err, &ue) || ue.Message != "quota exceeded" || ue.Code != 400 {
			t.Errorf("コードと文言を保持すべき: %+v", ue)
		}
	})

	t.Run("動画リストが空でトップレベルエラーも無ければ EmptyResult", func(t *testing.T) {
		op := &genai.GenerateVideosOperation{
			Done:     true,
			Response: &genai.GenerateVideosResponse{},
		}

		_, err := classifyOperation(op)
		if !errors.Is(err, domain.ErrEmptyResult) {
			t.Errorf("EmptyResult であるべき: %v", err)
		}
	})

	t.Run("エントリはあるがロケータ欠落かつ理由不明なら MalformedResponse", func(t *testing.T) {
		op := &genai.GenerateVideosOperation{
			Done: true,
			Response: &genai.GenerateVideosResponse{
				GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{}}},
			},
		}

		_, err := classifyOperation(op)
		if !errors.Is(err, domain.ErrMalformedResponse) {
			t.Errorf("MalformedResponse であるべき: %v", err)
		}
	})

	t.Run("フィルター理由が同居していてもロケータがあれば成功になる", func(t *testing.T) {
		// ロケータがあればフィルター理由が同居していても成功扱い
		op := doneOperation("https://example.com/v.mp4")
		op.Response.RAIMediaFilteredReasons = []string{"partial"}

		_, err := classifyOperation(op)
		if err != nil {
			t.Errorf("先勝ち順序では成功になるべき: %v", err)
		}
	})

	t.Run("解決は純関数であり再実行しても同じ分類になる", func(t *testing.T) {
		ops := []*genai.GenerateVideosOperation{
			doneOperation("https://example.com/v.mp4"),
			{Done: true, Error: map[string]any{"message": "boom"}},
			{Done: true, Response: &genai.GenerateVideosResponse{}},
		}

		for _, op := range ops {
			_, first := classifyOperation(op)
			_, second := classifyOperation(op)

			if (first == nil) != (second == nil) {
				t.Fatalf("再解決で結果が変わった: %v vs %v", first, second)
			}
			if first != nil && first.Error() != second.Error() {
				t.Errorf("再解決で分類が変わった: %v vs %v", first, second)
			}
		}
	})
}

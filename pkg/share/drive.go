// Package share は生成済み動画の Google Drive 共有を担当します。
// アップロード → リンク共有権限の付与 → 共有リンク取得の3段階で構成され、
// いずれかの段階が失敗した時点で、失敗段階を明記したエラーで中断します。
package share

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// DriveAPI は共有フローが必要とする Drive 操作の最小面です。
type DriveAPI interface {
	CreateFile(ctx context.Context, name, mimeType string, content io.Reader) (string, error)
	GrantAnyoneWriter(ctx context.Context, fileID string) error
	FetchShareLink(ctx context.Context, fileID string) (string, error)
}

// DriveSharer は動画1本分の共有シーケンスを実行します。
type DriveSharer struct {
	api DriveAPI
}

// NewDriveSharer は DriveSharer を初期化します。
func NewDriveSharer(api DriveAPI) (*DriveSharer, error) {
	if api == nil {
		return nil, fmt.Errorf("api (DriveAPI) is required")
	}
	return &DriveSharer{api: api}, nil
}

// Share は動画をアップロードし、リンクを知る全員に書き込み権限を付与した上で
// 共有リンクを返します。途中の失敗は段階名付きで包んで返します。
func (s *DriveSharer) Share(ctx context.Context, name, mimeType string, content io.Reader) (*domain.ShareResult, error) {
	fileID, err := s.api.CreateFile(ctx, name, mimeType, content)
	if err != nil {
		return nil, fmt.Errorf("Driveへのアップロードに失敗しました: %w", err)
	}

	if err := s.api.GrantAnyoneWriter(ctx, fileID); err != nil {
		return nil, fmt.Errorf("共有権限の付与に失敗しました: %w", err)
	}

	link, err := s.api.FetchShareLink(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("共有リンクの取得に失敗しました: %w", err)
	}

	return &domain.ShareResult{FileID: fileID, ShareURL: link}, nil
}

// driveService は *drive.Service を DriveAPI に適合させるアダプターです。
type driveService struct {
	svc *drive.Service
}

// NewDriveAPI は OAuth2 トークンソースから Drive クライアントを構築します。
func NewDriveAPI(ctx context.Context, tokenSource oauth2.TokenSource) (DriveAPI, error) {
	if tokenSource == nil {
		return nil, fmt.Errorf("%w: OAuth2 トークンソースが設定されていません", domain.ErrConfiguration)
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("Driveクライアントの初期化に失敗しました: %w", err)
	}
	return &driveService{svc: svc}, nil
}

func (d *driveService) CreateFile(ctx context.Context, name, mimeType string, content io.Reader) (string, error) {
	meta := &drive.File{Name: name, MimeType: mimeType}
	file, err := d.svc.Files.Create(meta).Media(content).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return file.Id, nil
}

func (d *driveService) GrantAnyoneWriter(ctx context.Context, fileID string) error {
	perm := &drive.Permission{Type: "anyone", Role: "writer"}
	_, err := d.svc.Permissions.Create(fileID, perm).Context(ctx).Do()
	return err
}

func (d *driveService) FetchShareLink(ctx context.Context, fileID string) (string, error) {
	file, err := d.svc.Files.Get(fileID).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return file.WebViewLink, nil
}

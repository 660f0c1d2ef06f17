package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/shouni/gemini-video-kit/pkg/domain"
)

// progressMessages はポーリング中に巡回表示する進捗メッセージです。
// インデックスはポーリング回数のリスト長剰余で決まります。
var progressMessages = []string{
	"動画生成リクエストを受け付けました…",
	"シーンを組み立てています…",
	"フレームをレンダリングしています…",
	"動きを仕上げています…",
	"もう少しで完成します…",
	"最終チェック中です…",
}

// fetchingMessage は結果取得フェーズへ移行したときの通知です。
const fetchingMessage = "生成された動画を取得しています…"

// OperationPoller は長時間実行オペレーションを固定間隔で完了まで追跡します。
// バックエンドには push 型の完了通知が無く、pull 型の状態確認のみが提供されています。
type OperationPoller struct {
	model    VideoModel
	interval time.Duration
	messages []string
}

// NewOperationPoller は OperationPoller を初期化します。
func NewOperationPoller(model VideoModel) (*OperationPoller, error) {
	if model == nil {
		return nil, fmt.Errorf("model (VideoModel) is required")
	}
	return &OperationPoller{
		model:    model,
		interval: defaultPollInterval,
		messages: progressMessages,
	}, nil
}

// PollUntilDone はオペレーションが完了するまで状態確認を繰り返し、最終状態を返します。
// 状態確認自体の通信失敗は致命的エラーとして即座に伝播し、以降のポーリングは行いません。
// 完了までの上限時間は設けていません（バックエンド仕様に合わせた既知の無制限待機）。
// ctx のキャンセルは待機中にも反映されます。
func (p *OperationPoller) PollUntilDone(ctx context.Context, op *genai.GenerateVideosOperation, progress ProgressFunc) (*genai.GenerateVideosOperation, error) {
	if op == nil {
		return nil, fmt.Errorf("%w: オペレーションハンドルが nil です", domain.ErrValidation)
	}

	emit(progress, p.messages[0])

	polls := 0
	for !op.Done {
		if err := sleepContext(ctx, p.interval); err != nil {
			return nil, err
		}

		polls++
		emit(progress, p.messages[polls%len(p.messages)])

		next, err := p.model.GetVideosOperation(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("オペレーション状態の取得に失敗しました: %w: %w", domain.ErrTransport, err)
		}
		op = next

		slog.DebugContext(ctx, "ポーリング実行", "operation", op.Name, "done", op.Done, "polls", polls)
	}

	slog.InfoContext(ctx, "オペレーションが完了しました", "operation", op.Name, "polls", polls)
	return op, nil
}

// emit は progress が設定されている場合のみメッセージを通知します。
func emit(progress ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
}

// sleepContext は ctx のキャンセルを尊重しつつ d だけ待機します。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package domain

// AspectRatio は生成動画の縦横比です。Veo API が受け付ける値をそのまま保持します。
type AspectRatio string

const (
	// AspectRatioWide は横長 (16:9) です。
	AspectRatioWide AspectRatio = "16:9"
	// AspectRatioTall は縦長 (9:16) です。
	AspectRatioTall AspectRatio = "9:16"
)

// ImageInput は入力画像1枚分のバイナリとMIMEタイプです。
// 構築後は不変として扱い、リクエスト組み立て側でのみ消費されます。
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// VideoGenerationRequest は動画生成1回分の要求です。
// Images は1〜3枚。1枚なら主画像モード、2〜3枚なら参照アセットモードとなり、
// 使用モデルもモードに応じて切り替わります（相互排他）。
type VideoGenerationRequest struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    AspectRatio
	Images         []ImageInput
	Seed           *int64 // nil でランダム、値指定で固定
}

// VideoResponse は生成された動画データとそのメタデータです。
type VideoResponse struct {
	Data     []byte
	MimeType string
	URI      string // バックエンドが返した取得元ロケータ（inline 返却時は空）
}

// ShareResult はクラウド共有が完了した動画の参照情報です。
type ShareResult struct {
	FileID   string
	ShareURL string
}

package generator

import "time"

const (
	// ModelFast は単一画像モード用の高速モデルです。
	ModelFast = "veo-3.1-fast-generate-preview"
	// ModelReference は参照アセット（複数画像）対応モデルです。
	// 高速系モデルは参照アセットリクエストを受理しないため、2枚以上では必ずこちらを使います。
	ModelReference = "veo-3.1-generate-preview"

	// 出力は常に1本・720pに固定しています。
	numberOfVideos = 1
	resolution720p = "720p"

	// maxReferenceImages はバックエンドが受け付ける参照アセットの上限です。
	maxReferenceImages = 3

	// defaultPollInterval はオペレーション状態確認の間隔です。
	defaultPollInterval = 5 * time.Second

	// 入力画像がこのサイズを超える場合のみ JPEG 再圧縮します。
	compressionThreshold    = 4 << 20
	imageCompressionQuality = 80
)

// Package config は環境変数ベースの設定読み込みを担当します。
// 資格情報はここで読み込んだ値を各コンストラクタへ明示的に渡します。
// グローバルな参照は持ちません。
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config は gemini-video-kit の実行時設定です。
type Config struct {
	// APIKey は Gemini API キーです。空の場合は AuthEndpoint 経由の取得を試みます。
	APIKey string
	// AuthEndpoint は合言葉→APIキー交換のステートレス検証エンドポイントです。
	AuthEndpoint string
	// RefinerModel はプロンプトリファインに使うテキストモデルです。
	RefinerModel string
	// DriveTokenFile は Drive 共有用 OAuth2 トークン(JSON)のパスです。空なら共有無効。
	DriveTokenFile string
}

// Load は .env（存在する場合）と環境変数から設定を構築します。
func Load() Config {
	// env ファイルが無いのは正常系
	_ = godotenv.Load(".env", ".env.local")

	return Config{
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		AuthEndpoint:   os.Getenv("VIDEO_KIT_AUTH_ENDPOINT"),
		RefinerModel:   getenv("VIDEO_KIT_REFINER_MODEL", "gemini-2.5-flash"),
		DriveTokenFile: os.Getenv("VIDEO_KIT_DRIVE_TOKEN_FILE"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Package imgutil は動画生成へ渡す入力写真の前処理を担当します。
package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkIfOversized は threshold バイトを超える画像のみ JPEG 再圧縮します。
// 閾値以下の画像、および圧縮で縮まなかった画像は元データをそのまま返します。
func ShrinkIfOversized(data []byte, threshold, quality int) ([]byte, error) {
	if len(data) <= threshold {
		return data, nil
	}

	compressed, err := CompressToJPEG(data, quality)
	if err != nil {
		return nil, err
	}
	if len(compressed) >= len(data) {
		return data, nil
	}
	return compressed, nil
}

package usecase

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 画像アップロード。保存先のディレクトリはDI
type UploadUsecase struct {
	dir string
}

func NewUploadUsecase(dir string) *UploadUsecase {
	return &UploadUsecase{dir: dir}
}

// 画像を保存して公開URLを返す
func (u *UploadUsecase) SaveImage(filename string, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", NewHTTPError(http.StatusBadRequest, "file must be an image")
	}

	ext := strings.ToLower(path.Ext(filename))

	//衝突しない名前にする
	name := fmt.Sprintf("product_%d_%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	dst, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	return "/uploads/" + name, nil
}

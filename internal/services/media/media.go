// Package media отвечает за изображения профиля: подпись для загрузки
// напрямую в Cloudinary с клиента и сохранение пути загруженного файла.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/theclub367services-boop/club369/internal/config"
	"github.com/theclub367services-boop/club369/internal/models"
)

// ProfileRepository сохраняет путь к изображению профиля.
type ProfileRepository interface {
	SaveProfilePicture(ctx context.Context, userUID, path string) error
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// UploadSignature — параметры для прямой загрузки с клиента.
// Клиент отправляет файл в Cloudinary сам, сервер только подписывает запрос.
type UploadSignature struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// Service реализует операции с изображениями профиля.
type Service struct {
	cld  *cloudinary.Cloudinary
	repo ProfileRepository
	cfg  config.Cloudinary
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(cfg config.Cloudinary, repo ProfileRepository, log *slog.Logger) (*Service, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &Service{
		cld:  cld,
		repo: repo,
		cfg:  cfg,
		log:  log,
	}, nil
}

// SignUpload подписывает параметры прямой загрузки. Подпись действительна
// для пары timestamp+folder, как требует Cloudinary.
func (s *Service) SignUpload() (UploadSignature, error) {
	timestamp := time.Now().Unix()
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("folder", s.cfg.Folder)

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return UploadSignature{}, fmt.Errorf("failed to sign upload parameters: %w", err)
	}
	return UploadSignature{
		Timestamp: timestamp,
		Signature: signature,
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Folder:    s.cfg.Folder,
	}, nil
}

// Upload загружает файл через сервер. Запасной путь для клиентов,
// которым недоступна прямая загрузка.
func (s *Service) Upload(ctx context.Context, file io.Reader) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.cfg.Folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	return result.SecureURL, nil
}

// SavePicture сохраняет путь к изображению профиля и возвращает
// обновлённого пользователя.
func (s *Service) SavePicture(ctx context.Context, userUID, path string) (*models.User, error) {
	if err := s.repo.SaveProfilePicture(ctx, userUID, path); err != nil {
		return nil, err
	}
	s.log.Info("profile picture saved", slog.String("user_uid", userUID))
	return s.repo.GetUser(ctx, userUID)
}

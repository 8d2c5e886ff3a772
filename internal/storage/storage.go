package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxUploadSize caps worksheet photos and Quran page images.
const MaxUploadSize = 10 << 20

// Storage persists uploads under a folder and returns a URL the SPA can load.
type Storage interface {
	SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error)
	SaveBytes(data []byte, filename, folder string) (string, error)
}

type LocalStorage struct {
	uploadDir string
	urlPrefix string
}

type SpacesStorage struct {
	client s3iface.S3API
	bucket string
	cdnURL string
}

func NewLocalStorage(uploadDir string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, urlPrefix: "/uploads"}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return NewSpacesStorageWithClient(s3.New(sess), bucket, cdnURL), nil
}

func NewSpacesStorageWithClient(client s3iface.S3API, bucket, cdnURL string) *SpacesStorage {
	return &SpacesStorage{client: client, bucket: bucket, cdnURL: cdnURL}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// normalizeFilename creates a unique object name without spaces: basename_<uuid>.ext
func normalizeFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	baseName := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = unsafeChars.ReplaceAllString(baseName, "")
	if baseName == "" {
		baseName = "file"
	}
	if len(baseName) > 40 {
		baseName = baseName[:40]
	}
	return fmt.Sprintf("%s_%s%s", baseName, uuid.NewString(), ext)
}

func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "misc"
	}
	return folder
}

// ReadUpload loads a multipart file into memory, enforcing MaxUploadSize.
func ReadUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > MaxUploadSize {
		return nil, fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("file too large")
	}
	return data, nil
}

func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error) {
	data, err := ReadUpload(fileHeader)
	if err != nil {
		return "", err
	}
	return ls.SaveBytes(data, fileHeader.Filename, folder)
}

func (ls *LocalStorage) SaveBytes(data []byte, filename, folder string) (string, error) {
	folder = cleanFolder(folder)
	name := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", name).Str("folder", folder).Msg("file upload normalized")

	dir := filepath.Join(ls.uploadDir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return ls.urlPrefix + "/" + folder + "/" + name, nil
}

func (ss *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, folder string) (string, error) {
	data, err := ReadUpload(fileHeader)
	if err != nil {
		return "", err
	}
	return ss.SaveBytes(data, fileHeader.Filename, folder)
}

func (ss *SpacesStorage) SaveBytes(data []byte, filename, folder string) (string, error) {
	name := normalizeFilename(filename)
	key := cleanFolder(folder) + "/" + name

	_, err := ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType(name)),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload file to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key), nil
}

func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// IsImage reports whether filename has an image extension we accept.
func IsImage(filename string) bool {
	return strings.HasPrefix(ContentType(filename), "image/")
}

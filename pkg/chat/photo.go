package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/state/logger"

	"github.com/dustin/go-humanize"
	"github.com/valyala/fasthttp"
)

// DefaultImage is the profile picture every new user starts with.
const DefaultImage = "default.jpg"

var imageURLPattern = regexp.MustCompile(`\.(jpeg|jpg)$`)

// ErrPhotosDisabled is returned when no media directory is configured.
var ErrPhotosDisabled = errors.New("profile photo uploads are disabled")

// Photos downloads, crops and stores profile pictures.
type Photos struct {
	dir     string
	client  *fasthttp.Client
	timeout time.Duration
}

func NewPhotos(dir string, maxSize int64, timeout time.Duration) *Photos {
	return &Photos{
		dir: dir,
		client: &fasthttp.Client{
			Name:                "k24chat-photos",
			MaxResponseBodySize: int(maxSize),
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
	}
}

func (p *Photos) Dir() string { return p.dir }

// EnsureDefault writes a plain grey default picture if none exists yet.
func (p *Photos) EnsureDefault() error {
	path := filepath.Join(p.dir, DefaultImage)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for i := range img.Pix {
		img.Pix[i] = 0xc8
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (p *Photos) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode())
	}
	return append([]byte(nil), resp.Body()...), nil
}

func (p *Photos) save(name string, b []byte) error {
	tmp := filepath.Join(p.dir, name+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(p.dir, name))
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropJPEG cuts r out of a jpeg. r must lie inside the image and be non-empty.
func cropJPEG(data []byte, r image.Rectangle) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.BadRequest("Invalid image")
	}
	b := img.Bounds()
	r = r.Add(b.Min)
	if r.Empty() || !r.In(b) {
		return nil, errs.BadRequest("Invalid dimension")
	}
	si, ok := img.(subImager)
	if !ok {
		return nil, errs.BadRequest("Invalid image")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, si.SubImage(r), &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadPhoto downloads a jpeg, crops it to the given box and makes it the
// caller's profile picture.
func (s *Service) UploadPhoto(ctx context.Context, token, imgURL string, xStart, yStart, xEnd, yEnd int) error {
	var uid int
	err := s.store.View(func(d *models.Data) error {
		var err error
		uid, err = authenticate(d, token)
		return err
	})
	if err != nil {
		return err
	}
	if !imageURLPattern.MatchString(imgURL) {
		return errs.BadRequest("Invalid image")
	}
	if xEnd < xStart || yEnd < yStart || xStart < 0 || yStart < 0 {
		return errs.BadRequest("Invalid dimension")
	}
	if s.photos == nil {
		return ErrPhotosDisabled
	}
	raw, err := s.photos.fetch(ctx, imgURL)
	if err != nil {
		logger.Warn("photo_download_failed", "uid", uid, "error", err)
		return errs.BadRequest("Invalid image")
	}
	cropped, err := cropJPEG(raw, image.Rect(xStart, yStart, xEnd, yEnd))
	if err != nil {
		return err
	}
	name := fmt.Sprintf("cropped%d.jpg", uid)
	if err := s.photos.save(name, cropped); err != nil {
		return fmt.Errorf("store photo: %w", err)
	}
	logger.Info("profile_photo_updated", "uid", uid, "size", humanize.Bytes(uint64(len(cropped))))
	return s.store.Update(func(d *models.Data) error {
		u := directory.ActiveUser(d, uid)
		if u == nil {
			return errs.Forbidden("Invalid token")
		}
		u.ProfileImgURL = s.publicURL + "/img/" + name
		return nil
	})
}

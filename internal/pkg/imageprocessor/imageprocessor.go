package imageprocessor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"github.com/ManuelReschke/HouseHub/app/models"
	"github.com/ManuelReschke/HouseHub/internal/pkg/s3backup"
	"github.com/ManuelReschke/HouseHub/internal/pkg/storage"
)

const (
	ThumbnailWidth   = 400
	DefaultWorkers   = 3
	DefaultQueueSize = 100
	webpQuality      = 85
)

var ErrStopped = errors.New("image processor is not running")

// ImageStore persists the processed variants of a listing image
type ImageStore interface {
	UpdateImage(image *models.ListingImage) error
}

// Backup receives every file the processor produced
type Backup interface {
	Backup(ctx context.Context, localPath, relPath string) (*s3backup.UploadResult, error)
}

// Processor generates thumbnails for uploaded listing images with a fixed
// pool of workers reading from a bounded queue.
type Processor struct {
	store   *storage.Storage
	images  ImageStore
	backup  Backup
	workers int

	jobs    chan models.ListingImage
	wg      sync.WaitGroup
	mutex   sync.Mutex
	started bool
}

type Option func(*Processor)

func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.jobs = make(chan models.ListingImage, n)
		}
	}
}

// WithBackup mirrors originals and variants. A nil client disables it.
func WithBackup(c *s3backup.Client) Option {
	return func(p *Processor) {
		if c != nil {
			p.backup = c
		}
	}
}

func New(store *storage.Storage, images ImageStore, opts ...Option) *Processor {
	p := &Processor{
		store:   store,
		images:  images,
		workers: DefaultWorkers,
		jobs:    make(chan models.ListingImage, DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker pool
func (p *Processor) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started {
		return
	}
	p.started = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Infof("[ImageProcessor] Started worker pool with %d workers", p.workers)
}

// Stop drains the queue and waits for all workers to exit
func (p *Processor) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started {
		return
	}
	close(p.jobs)
	p.wg.Wait()
	p.started = false
	p.jobs = make(chan models.ListingImage, cap(p.jobs))
	log.Info("[ImageProcessor] Worker pool stopped")
}

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for img := range p.jobs {
		if err := p.Process(context.Background(), &img); err != nil {
			log.Errorf("[ImageProcessor] Worker %d failed to process %s: %v", id, img.Image, err)
			continue
		}
		log.Infof("[ImageProcessor] Worker %d processed %s", id, img.Image)
	}
}

// Enqueue hands an image to the pool without blocking. A full queue drops
// the job; the original upload stays usable.
func (p *Processor) Enqueue(img models.ListingImage) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started {
		return ErrStopped
	}
	select {
	case p.jobs <- img:
		return nil
	default:
		log.Warnf("[ImageProcessor] Queue full, skipping thumbnails for %s", img.Image)
		return fmt.Errorf("queue full, dropped %s", img.Image)
	}
}

// Process builds the JPEG and WebP thumbnails of img, reads its EXIF data
// and stores the result.
func (p *Processor) Process(ctx context.Context, img *models.ListingImage) error {
	originalPath, err := p.store.Path(img.Image)
	if err != nil {
		return err
	}

	meta, err := ExtractMetadata(originalPath)
	if err != nil {
		return err
	}

	src, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("error opening image: %w", err)
	}
	bounds := src.Bounds()
	thumb := imaging.Resize(src, ThumbnailWidth, 0, imaging.Lanczos)

	thumbRel := storage.DerivedPath(img.Image, "_thumb", ".jpg")
	thumbPath, err := p.store.Path(thumbRel)
	if err != nil {
		return err
	}
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(webpQuality)); err != nil {
		return fmt.Errorf("error saving thumbnail: %w", err)
	}

	webpRel := storage.DerivedPath(img.Image, "_thumb", ".webp")
	webpPath, err := p.store.Path(webpRel)
	if err != nil {
		return err
	}
	if err := saveWebP(thumb, webpPath); err != nil {
		return err
	}

	img.Thumbnail = thumbRel
	img.WebPThumbnail = webpRel
	img.Width = bounds.Dx()
	img.Height = bounds.Dy()
	img.TakenAt = meta.TakenAt

	if err := p.images.UpdateImage(img); err != nil {
		return fmt.Errorf("error saving image %d: %w", img.ID, err)
	}

	if p.backup != nil {
		for rel, local := range map[string]string{img.Image: originalPath, thumbRel: thumbPath, webpRel: webpPath} {
			if _, err := p.backup.Backup(ctx, local, rel); err != nil {
				log.Warnf("[ImageProcessor] Backup of %s failed: %v", rel, err)
			}
		}
	}
	return nil
}

func saveWebP(img image.Image, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating WebP file: %w", err)
	}
	defer output.Close()

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, webpQuality)
	if err != nil {
		return fmt.Errorf("error creating encoder options: %w", err)
	}
	if err := webp.Encode(output, img, options); err != nil {
		return fmt.Errorf("error encoding WebP image: %w", err)
	}
	return nil
}

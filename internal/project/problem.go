package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ErrImageNotFound indicates that no target image exists for a problem.
var ErrImageNotFound = errors.New("project: target image not found")

// ImageExtensions lists the target image formats tried, in order.
var ImageExtensions = []string{".png", ".bmp", ".tiff", ".tif", ".webp", ".jpg", ".jpeg"}

// Problem is a target image with the canvas a search starts from.
type Problem struct {
	ID          string
	ImagePath   string
	InitialPath string // empty when the problem starts from a blank canvas
	Image       image.Image
	Initial     *model.Canvas
}

// ImagePath returns the first existing target image of problem id under
// dir, trying every extension in ImageExtensions.
func ImagePath(dir, id string) (string, error) {
	for _, ext := range ImageExtensions {
		path := filepath.Join(dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: problem %s in %s", ErrImageNotFound, id, dir)
}

// InitialPath returns the path of the starting canvas of problem id.
func InitialPath(dir, id string) string {
	return filepath.Join(dir, id+".initial.json")
}

// LoadProblem reads the target image of problem id from cfg.ResourcesDir
// and its starting canvas from cfg.InitialDir. A missing starting canvas
// means a single white block the size of the image.
func LoadProblem(id string, cfg model.AppConfig) (*Problem, error) {
	imgPath, err := ImagePath(cfg.ResourcesDir, id)
	if err != nil {
		return nil, err
	}
	img, err := LoadImage(imgPath)
	if err != nil {
		return nil, err
	}

	p := &Problem{ID: id, ImagePath: imgPath, Image: img}

	initPath := InitialPath(cfg.InitialDir, id)
	if _, err := os.Stat(initPath); err == nil {
		canvas, err := LoadInitialCanvas(initPath)
		if err != nil {
			return nil, err
		}
		p.InitialPath = initPath
		p.Initial = canvas
	} else {
		b := img.Bounds()
		p.Initial = model.NewCanvas(b.Dx(), b.Dy())
	}
	return p, nil
}

// LoadImage decodes an image file in any registered format.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadInitialCanvas reads a starting canvas description and validates it.
func LoadInitialCanvas(path string) (*model.Canvas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial canvas: %w", err)
	}
	var cd model.CanvasData
	if err := json.Unmarshal(data, &cd); err != nil {
		return nil, fmt.Errorf("failed to parse initial canvas %s: %w", path, err)
	}
	canvas, err := model.CanvasFromData(cd)
	if err != nil {
		return nil, fmt.Errorf("invalid initial canvas %s: %w", path, err)
	}
	return canvas, nil
}

// SaveInitialCanvas writes a canvas in the starting canvas format.
func SaveInitialCanvas(path string, c *model.Canvas) error {
	data, err := json.MarshalIndent(c.Data(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal canvas: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create canvas directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

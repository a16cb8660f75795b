package frames

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ErrEncode marks a failure while writing the cropped frame. The destination
// may then hold a partial file; any other Crop error leaves it untouched.
var ErrEncode = errors.New("encode frame")

// Ratio is the fraction of the frame height kept from the top.
type Ratio struct {
	Numerator   float64
	Denominator float64
}

// DefaultRatio keeps the top 11/11.5 of the screen, dropping the
// reading-progress footer.
var DefaultRatio = Ratio{Numerator: 11, Denominator: 11.5}

// Valid reports whether the ratio keeps a positive share of at most the whole frame.
func (r Ratio) Valid() bool {
	return r.Numerator > 0 && r.Denominator > 0 && r.Numerator <= r.Denominator
}

// CroppedHeight returns floor(height * numerator / denominator).
func CroppedHeight(height int, r Ratio) int {
	if height <= 0 || !r.Valid() {
		return 0
	}
	return int(math.Floor(float64(height) * r.Numerator / r.Denominator))
}

// Crop decodes the image at src, keeps the full width and the top share of
// the height given by r, and encodes the result to dst. The format of dst
// follows its extension.
func Crop(src, dst string, r Ratio) (image.Rectangle, error) {
	if !r.Valid() {
		return image.Rectangle{}, fmt.Errorf("invalid crop ratio %g/%g", r.Numerator, r.Denominator)
	}
	img, err := imaging.Open(src)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("decode frame: %w", err)
	}
	bounds := img.Bounds()
	height := CroppedHeight(bounds.Dy(), r)
	if height == 0 || bounds.Dx() == 0 {
		return image.Rectangle{}, errors.New("decode frame: image too small to crop")
	}
	rect := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+height)
	cropped := imaging.Crop(img, rect)
	if err := imaging.Save(cropped, dst); err != nil {
		return image.Rectangle{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return cropped.Bounds(), nil
}

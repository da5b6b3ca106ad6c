package receipt

import (
	"image"
	"image/color"
	"log/slog"

	xdraw "golang.org/x/image/draw"
)

// minOCRWidth is the width below which receipts are upscaled before OCR.
const minOCRWidth = 1000

// Preprocess prepares a receipt photo for OCR: grayscale conversion,
// contrast stretching, noise reduction, binarization, and upscaling of
// narrow images. It is a pure image-to-image function; if anything inside
// fails, the original image passes through unmodified so the pipeline
// never aborts on preprocessing.
func Preprocess(src image.Image) (out image.Image) {
	out = src
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("image preprocessing failed, using original", "panic", r)
			out = src
		}
	}()

	gray := toGray(src)
	gray = stretchContrast(gray)
	gray = medianFilter(gray)
	bin := binarize(gray)

	if bin.Bounds().Dx() < minOCRWidth {
		bin = upscale(bin, minOCRWidth)
	}

	return bin
}

// toGray converts any image to 8-bit grayscale.
func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return gray
}

// stretchContrast linearly rescales pixel intensities to the full range.
func stretchContrast(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	lo, hi := uint8(255), uint8(0)
	for _, v := range src.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return src
	}

	out := image.NewGray(bounds)
	scale := 255.0 / float64(hi-lo)
	for i, v := range src.Pix {
		out.Pix[i] = uint8(float64(v-lo) * scale)
	}
	return out
}

// medianFilter applies a 3x3 median filter to suppress salt-and-pepper
// noise typical of scanned receipts.
func medianFilter(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(bounds)
	copy(out.Pix, src.Pix)

	var window [9]uint8
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			i := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window[i] = src.GrayAt(x+dx, y+dy).Y
					i++
				}
			}
			out.SetGray(x, y, color.Gray{Y: median9(window)})
		}
	}
	return out
}

// median9 returns the median of nine values using insertion sort.
func median9(w [9]uint8) uint8 {
	for i := 1; i < len(w); i++ {
		for j := i; j > 0 && w[j] < w[j-1]; j-- {
			w[j], w[j-1] = w[j-1], w[j]
		}
	}
	return w[4]
}

// binarize thresholds the image using Otsu's method.
func binarize(src *image.Gray) *image.Gray {
	threshold := otsuThreshold(src)

	out := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if v > threshold {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

// otsuThreshold finds the intensity split that maximizes between-class
// variance.
func otsuThreshold(src *image.Gray) uint8 {
	var hist [256]int
	for _, v := range src.Pix {
		hist[v]++
	}

	total := len(src.Pix)
	var sum float64
	for i, count := range hist {
		sum += float64(i) * float64(count)
	}

	var sumB, wB float64
	var maxVariance float64
	var threshold uint8

	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(t)
		}
	}
	return threshold
}

// upscale resizes the image to the target width preserving aspect ratio.
func upscale(src *image.Gray, targetWidth int) *image.Gray {
	bounds := src.Bounds()
	scale := float64(targetWidth) / float64(bounds.Dx())
	newHeight := int(float64(bounds.Dy()) * scale)

	out := image.NewGray(image.Rect(0, 0, targetWidth, newHeight))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, bounds, xdraw.Over, nil)
	return out
}

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"

	_ "image/jpeg"
)

// Preprocess prepares a rendered page image for recognition: grayscale
// conversion, a 3x3 median filter to knock out scan noise, then Otsu
// binarization. Returns the result re-encoded as PNG.
func Preprocess(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(src)
	gray = medianFilter(gray)
	bin := otsuBinarize(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, bin); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}
	return gray
}

// medianFilter applies a 3x3 median filter. Border pixels are copied
// through unchanged.
func medianFilter(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	copy(dst.Pix, src.Pix)

	window := make([]byte, 0, 9)
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		for x := b.Min.X + 1; x < b.Max.X-1; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window = append(window, src.GrayAt(x+dx, y+dy).Y)
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			dst.SetGray(x, y, color.Gray{Y: window[4]})
		}
	}
	return dst
}

// otsuBinarize thresholds the image at the level that maximizes
// between-class variance over its histogram.
func otsuBinarize(src *image.Gray) *image.Gray {
	b := src.Bounds()

	var hist [256]int
	total := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[src.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return src
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var maxVar float64
	threshold := 0
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
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = t
		}
	}

	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if int(src.GrayAt(x, y).Y) > threshold {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// Package grayscale provides a quantized 8-bit grayscale image format for e-ink panels.
//
// E-ink refresh modes render a limited number of luminance quanta: a full refresh
// typically settles 16 levels while partial or fast updates only manage 4 or 2.
// Samples are stored one byte per pixel (0 = black, 255 = white) and snapped to the
// nearest of N evenly spaced quanta.
//
// Quanta for common level counts:
//
//	Levels  Step  Values
//	2       255   0, 255
//	4       85    0, 85, 170, 255
//	16      17    0, 17, 34, ... 238, 255
//
// This package provides:
//
// - Quantize and Snap: map a sample (or a blended float value) to the nearest quantum
// - Model: a color.Model converting standard Go colors to N-level gray
// - Image: an image.Image / draw.Image implementation bound to a level count
//
// Example usage:
//
//	// Create a 250x122 image with 16 gray levels
//	img := grayscale.NewImage(image.Rect(0, 0, 250, 122), 16)
//
//	// Set a pixel; 100 is snapped to 102 (level 6 of 16)
//	img.SetGray(10, 20, color.Gray{Y: 100})
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
package grayscale

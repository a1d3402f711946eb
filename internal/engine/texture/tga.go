package texture

import (
	"errors"
	"fmt"
	"image"
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	kind := data[2]
	if kind != 2 && kind != 10 {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	w := int(data[12]) | int(data[13])<<8
	h := int(data[14]) | int(data[15])<<8
	bpp := int(data[16]) / 8
	if bpp != 3 && bpp != 4 {
		return nil, fmt.Errorf("tga: unsupported depth %d bits", data[16])
	}
	topDown := data[17]&0x20 != 0

	src := data[18:]
	if idLength > len(src) {
		return nil, errTGATruncated
	}
	src = src[idLength:]

	// Expand to a flat BGR(A) stream first, then reorder rows
	n := w * h
	raw := make([]byte, 0, n*bpp)
	if kind == 2 {
		if len(src) < n*bpp {
			return nil, errTGATruncated
		}
		raw = append(raw, src[:n*bpp]...)
	} else {
		for len(raw) < n*bpp {
			if len(src) == 0 {
				return nil, errTGATruncated
			}
			header := src[0]
			src = src[1:]
			count := int(header&0x7f) + 1
			if header&0x80 != 0 {
				if len(src) < bpp {
					return nil, errTGATruncated
				}
				for i := 0; i < count; i++ {
					raw = append(raw, src[:bpp]...)
				}
				src = src[bpp:]
			} else {
				if len(src) < count*bpp {
					return nil, errTGATruncated
				}
				raw = append(raw, src[:count*bpp]...)
				src = src[count*bpp:]
			}
		}
		raw = raw[:n*bpp]
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := y
		if !topDown {
			row = h - 1 - y
		}
		for x := 0; x < w; x++ {
			s := (row*w + x) * bpp
			d := img.PixOffset(x, y)
			img.Pix[d+0] = raw[s+2]
			img.Pix[d+1] = raw[s+1]
			img.Pix[d+2] = raw[s+0]
			img.Pix[d+3] = 255
			if bpp == 4 {
				img.Pix[d+3] = raw[s+3]
			}
		}
	}
	return img, nil
}

package mp4media

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_err_t av1_dec_init(aom_codec_ctx_t *ctx) {
    return aom_codec_dec_init(ctx, aom_codec_av1_dx(), NULL, 0);
}

static unsigned char* av1_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int av1_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int av1_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int av1_height(aom_image_t *img) {
    return img->d_h;
}
*/
import "C"

import (
	"fmt"
	"image"
	"unsafe"
)

// av1Decoder decodes AV1 sample payloads using libaom.
type av1Decoder struct {
	ctx *C.aom_codec_ctx_t
}

// newAV1Decoder allocates and initializes a libaom decoder context.
func newAV1Decoder() (*av1Decoder, error) {
	ctx := (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if ctx == nil {
		return nil, fmt.Errorf("allocate decoder context")
	}
	C.memset(unsafe.Pointer(ctx), 0, C.sizeof_aom_codec_ctx_t)

	if res := C.av1_dec_init(ctx); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(ctx))
		return nil, fmt.Errorf("initialize libaom decoder: %d", res)
	}
	return &av1Decoder{ctx: ctx}, nil
}

// decode feeds one sample payload to the decoder and returns the resulting
// picture.
func (d *av1Decoder) decode(data []byte) (image.Image, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("decoder closed")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty sample payload")
	}

	res := C.aom_codec_decode(
		d.ctx,
		(*C.uint8_t)(unsafe.Pointer(&data[0])),
		C.size_t(len(data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return nil, fmt.Errorf("decode sample: %d", res)
	}

	var iter C.aom_codec_iter_t
	img := C.aom_codec_get_frame(d.ctx, &iter)
	if img == nil {
		return nil, fmt.Errorf("no picture produced")
	}
	return yuv420ToRGBA(img), nil
}

// close releases the decoder context. Safe to call more than once.
func (d *av1Decoder) close() {
	if d.ctx != nil {
		C.aom_codec_destroy(d.ctx)
		C.free(unsafe.Pointer(d.ctx))
		d.ctx = nil
	}
}

// yuv420ToRGBA converts a decoded YUV420 picture to RGBA.
func yuv420ToRGBA(img *C.aom_image_t) *image.RGBA {
	width := int(C.av1_width(img))
	height := int(C.av1_height(img))

	yPlane := unsafe.Pointer(C.av1_plane(img, 0))
	uPlane := unsafe.Pointer(C.av1_plane(img, 1))
	vPlane := unsafe.Pointer(C.av1_plane(img, 2))

	yStride := int(C.av1_stride(img, 0))
	uStride := int(C.av1_stride(img, 1))
	vStride := int(C.av1_stride(img, 2))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		yRow := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(yPlane)+uintptr(y*yStride))), width)
		uRow := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(uPlane)+uintptr((y/2)*uStride))), (width+1)/2)
		vRow := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(vPlane)+uintptr((y/2)*vStride))), (width+1)/2)

		for x := 0; x < width; x++ {
			c := int(yRow[x]) - 16
			d := int(uRow[x/2]) - 128
			e := int(vRow[x/2]) - 128

			idx := y*rgba.Stride + x*4
			rgba.Pix[idx] = clampByte((298*c + 409*e + 128) >> 8)
			rgba.Pix[idx+1] = clampByte((298*c - 100*d - 208*e + 128) >> 8)
			rgba.Pix[idx+2] = clampByte((298*c + 516*d + 128) >> 8)
			rgba.Pix[idx+3] = 255
		}
	}

	return rgba
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

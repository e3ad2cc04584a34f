//go:build darwin && cgo

package capture

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <dlfcn.h>
#include <stdlib.h>

// Status codes mirrored by the capture* constants in capture.go.
enum {
    CAPTURE_OK          = 0,
    CAPTURE_NO_SYMBOL   = 1,
    CAPTURE_NO_IMAGE    = 2,
    CAPTURE_NO_MEMORY   = 3,
    CAPTURE_NO_CONTEXT  = 4,
};

typedef struct {
    void*  data;
    size_t size;
    int    width;
    int    height;
    int    status;
} FrameData;

// CGDisplayCreateImage is marked unavailable in the macOS 15 SDK headers
// but still ships in the CoreGraphics dylib. Resolve it at runtime.
typedef CGImageRef (*CGDisplayCreateImageFunc)(CGDirectDisplayID displayID);

static CGDisplayCreateImageFunc getCGDisplayCreateImage(void) {
    static CGDisplayCreateImageFunc fn = NULL;
    if (!fn) {
        fn = (CGDisplayCreateImageFunc)dlsym(RTLD_DEFAULT, "CGDisplayCreateImage");
    }
    return fn;
}

// Draws the display into an RGBA bitmap with stride width*4 so the
// Go side can wrap it without repacking. data is NULL unless status is
// CAPTURE_OK.
FrameData captureDisplay(CGDirectDisplayID displayID) {
    FrameData result = {0};

    CGDisplayCreateImageFunc fn = getCGDisplayCreateImage();
    if (!fn) {
        result.status = CAPTURE_NO_SYMBOL;
        return result;
    }

    CGImageRef image = fn(displayID);
    if (!image) {
        result.status = CAPTURE_NO_IMAGE;
        return result;
    }

    int width  = (int)CGImageGetWidth(image);
    int height = (int)CGImageGetHeight(image);
    if (width <= 0 || height <= 0) {
        CGImageRelease(image);
        result.status = CAPTURE_NO_IMAGE;
        return result;
    }

    size_t bytesPerRow = (size_t)width * 4;
    size_t size = bytesPerRow * height;
    void* data = calloc(1, size);
    if (!data) {
        CGImageRelease(image);
        result.status = CAPTURE_NO_MEMORY;
        return result;
    }

    CGColorSpaceRef cs = CGColorSpaceCreateDeviceRGB();
    CGContextRef ctx = CGBitmapContextCreate(
        data,
        width,
        height,
        8,
        bytesPerRow,
        cs,
        kCGImageAlphaPremultipliedLast
    );
    CGColorSpaceRelease(cs);
    if (!ctx) {
        free(data);
        CGImageRelease(image);
        result.status = CAPTURE_NO_CONTEXT;
        return result;
    }
    CGContextDrawImage(ctx, CGRectMake(0, 0, width, height), image);
    CGContextRelease(ctx);
    CGImageRelease(image);

    result.data   = data;
    result.size   = size;
    result.width  = width;
    result.height = height;
    return result;
}

void freeFrameData(void* data) {
    free(data);
}
*/
import "C"

import (
	"context"
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/junsooki/AirShot/internal/permissions"
)

const maxDisplays = 16

// CGCapturer captures every active display through CoreGraphics.
type CGCapturer struct{}

// NewCapturer returns the CoreGraphics capturer.
func NewCapturer() Capturer {
	return &CGCapturer{}
}

func activeDisplays() []C.CGDirectDisplayID {
	var displays [maxDisplays]C.CGDirectDisplayID
	var count C.uint32_t
	if C.CGGetActiveDisplayList(maxDisplays, &displays[0], &count) != 0 {
		return nil
	}
	return append([]C.CGDirectDisplayID(nil), displays[:int(count)]...)
}

func displayBounds(id C.CGDirectDisplayID) image.Rectangle {
	b := C.CGDisplayBounds(id)
	x, y := int(b.origin.x), int(b.origin.y)
	return image.Rect(x, y, x+int(b.size.width), y+int(b.size.height))
}

func (c *CGCapturer) Displays() ([]Display, error) {
	ids := activeDisplays()
	if len(ids) == 0 {
		return nil, ErrNoDisplays
	}
	main := C.CGMainDisplayID()
	out := make([]Display, 0, len(ids))
	for i, id := range ids {
		out = append(out, Display{Index: i, Bounds: displayBounds(id), Main: id == main})
	}
	return out, nil
}

func (c *CGCapturer) CaptureAll(ctx context.Context) (FrameSet, error) {
	if !permissions.HasScreenRecording() {
		permissions.RequestScreenRecording()
		return nil, ErrPermissionDenied
	}

	ids := activeDisplays()
	if len(ids) == 0 {
		return nil, ErrNoDisplays
	}

	frames := make(FrameSet, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := captureOne(id)
		if err != nil {
			return nil, fmt.Errorf("display %d: %w", i, err)
		}
		f.Display = i
		f.Bounds = displayBounds(id)
		frames = append(frames, f)
	}
	return frames, nil
}

func captureOne(id C.CGDirectDisplayID) (*Frame, error) {
	fd := C.captureDisplay(id)
	if fd.data == nil {
		return nil, captureStatusError(int(fd.status))
	}
	defer C.freeFrameData(fd.data)

	w := int(fd.width)
	h := int(fd.height)
	byteLen := int(fd.size)

	pix := make([]byte, byteLen)
	copy(pix, unsafe.Slice((*byte)(fd.data), byteLen))

	f, err := NewFrame(w, h, pix)
	if err != nil {
		return nil, err
	}
	f.Timestamp = time.Now()
	return f, nil
}

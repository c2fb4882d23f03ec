package pdfsed

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// drawImage handles: draw image "file" [dpi D] [pos X Y] [mask 0xRRGGBB] [mask-image "file"]
func (r *runner) drawImage(args *argReader) error {
	name, err := args.str()
	if err != nil {
		return err
	}
	path := r.resolve(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image config of %s: %w", path, err)
	}

	var (
		x, y      float64
		dpi       = math.Round(float64(cfg.Width) / (r.pageW / 72))
		mask      *rgb
		maskImage string
	)
	for !args.done() {
		prop, err := args.atom()
		if err != nil {
			return err
		}
		switch prop {
		case "dpi":
			if dpi, err = args.float(); err != nil {
				return err
			}
		case "pos":
			if x, err = args.float(); err != nil {
				return err
			}
			if y, err = args.float(); err != nil {
				return err
			}
		case "mask":
			c, err := args.color()
			if err != nil {
				return err
			}
			mask = &c
		case "mask-image":
			if maskImage, err = args.str(); err != nil {
				return err
			}
		default:
			return args.errorf("unknown image property %q", prop)
		}
	}
	if !(dpi > 0) {
		return args.errorf("image resolution must be positive, got %g", dpi)
	}

	switch {
	case maskImage != "":
		data, err = applyMaskImage(data, r.resolve(maskImage))
		format = "png"
	case mask != nil:
		data, err = applyColorMask(data, *mask)
		format = "png"
	default:
		data, format, err = embeddable(data, format)
	}
	if err != nil {
		return fmt.Errorf("failed to prepare image %s: %w", path, err)
	}

	w := 72 * float64(cfg.Width) / dpi
	h := 72 * float64(cfg.Height) / dpi
	r.images++
	imageName := fmt.Sprintf("img%d", r.images)
	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: strings.ToUpper(format)}
	r.pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
	r.pdf.ImageOptions(imageName, x, r.pageH-y-h, w, h, false, opts, 0, "")

	r.log.Info("image drawn", "file", path, "dpi", dpi, "x", x, "y", y, "width", w, "height", h)
	return nil
}

// embeddable returns image data fpdf can embed as is, transcoding the
// formats it does not read to PNG
func embeddable(data []byte, format string) ([]byte, string, error) {
	switch format {
	case "png", "jpeg", "gif":
		return data, format, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	out, err := encodePNG(img)
	return out, "png", err
}

// applyColorMask makes every pixel of exactly the mask colour transparent
func applyColorMask(data []byte, mask rgb) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
			if c.R == mask.R && c.G == mask.G && c.B == mask.B {
				c.A = 0
			}
			out.SetNRGBA(px, py, c)
		}
	}
	return encodePNG(out)
}

// applyMaskImage uses the luminance of the mask image, scaled to the
// image size, as its alpha channel
func applyMaskImage(data []byte, maskPath string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	maskData, err := os.ReadFile(maskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mask image: %w", err)
	}
	maskImg, _, err := image.Decode(bytes.NewReader(maskData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask image %s: %w", maskPath, err)
	}

	b := img.Bounds()
	alpha := image.NewGray(b)
	xdraw.BiLinear.Scale(alpha, b, maskImg, maskImg.Bounds(), xdraw.Src, nil)

	out := image.NewNRGBA(b)
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
			c.A = uint8(uint16(c.A) * uint16(alpha.GrayAt(px, py).Y) / 0xff)
			out.SetNRGBA(px, py, c)
		}
	}
	return encodePNG(out)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
